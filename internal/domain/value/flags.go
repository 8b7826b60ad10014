package value

// Flags: скрытые свойства товара, раскрываются сканированием.
type Flags struct {
	Fake   bool `json:"fake"`
	Danger bool `json:"danger"`
}

// Flagged сообщает, что товар подделка или опасен.
func (f Flags) Flagged() bool {
	return f.Fake || f.Danger
}

func (f Flags) String() string {
	switch {
	case f.Fake && f.Danger:
		return "Fake & Dangerous"
	case f.Fake:
		return "Fake"
	case f.Danger:
		return "Dangerous"
	default:
		return "Clean"
	}
}
