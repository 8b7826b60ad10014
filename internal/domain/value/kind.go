package value

// Kind задаёт тип встречи. Продавец предлагает товар, покупатель хочет товар из инвентаря.
type Kind string

const (
	KindSeller Kind = "seller"
	KindBuyer  Kind = "buyer"
)

func (k Kind) String() string {
	return string(k)
}

// Title для сообщений игроку.
func (k Kind) Title() string {
	if k == KindBuyer {
		return "Buyer"
	}
	return "Seller"
}
