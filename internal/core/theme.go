package core

const (
	Housing       Category = "housing"
	Food          Category = "food"
	Transport     Category = "transport"
	Entertainment Category = "entertainment"
	Health        Category = "health"
	Education     Category = "education"
	Salary        Category = "salary"
	Investment    Category = "investment"
	Other         Category = "other"
	Cruise        Category = "cruise"
	Car           Category = "car"
)

// Goal targets in reais.
const (
	CruiseTarget = 8000.0
	CarTarget    = 50000.0
)

// CategoryStyle describes how a category is labelled and colored.
type CategoryStyle struct {
	Label string
	Color string
}

var categoryOrder = []Category{
	Food, Housing, Transport, Entertainment, Health, Education,
	Salary, Investment, Other, Cruise, Car,
}

var categoryStyles = map[Category]CategoryStyle{
	Salary:        {Label: "Salário", Color: "#22c55e"},
	Housing:       {Label: "Moradia", Color: "#a855f7"},
	Food:          {Label: "Alimentação", Color: "#ef4444"},
	Transport:     {Label: "Transporte", Color: "#f59e0b"},
	Health:        {Label: "Saúde", Color: "#3b82f6"},
	Education:     {Label: "Educação", Color: "#eab308"},
	Entertainment: {Label: "Lazer", Color: "#64748b"},
	Investment:    {Label: "Investimento", Color: "#10b981"},
	Other:         {Label: "Outros", Color: "#94a3b8"},
	Cruise:        {Label: "Cruzeiro 🚢", Color: "#0ea5e9"},
	Car:           {Label: "Carro Novo 🚗", Color: "#6366f1"},
}

// Categories lists every category in form order.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

func (c Category) Valid() bool {
	_, ok := categoryStyles[c]
	return ok
}

// Style returns the label and color for c. Unknown categories get the
// "other" color and their raw value as label.
func (c Category) Style() CategoryStyle {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return CategoryStyle{Label: string(c), Color: categoryStyles[Other].Color}
}

func (c Category) Label() string {
	return c.Style().Label
}

// BillTheme is the banknote look for a person's balance.
type BillTheme struct {
	Background string
	Border     string
	Animal     string
	Text       string
	Sub        string
}

// ThemeForBalance picks the banknote theme: the richer the person, the
// higher the note.
func ThemeForBalance(balance float64) BillTheme {
	switch {
	case balance <= 0:
		return BillTheme{Background: "bg-slate", Border: "border-slate", Animal: "🐢", Text: "text-slate", Sub: "sub-slate"}
	case balance < 100:
		return BillTheme{Background: "bg-rose", Border: "border-rose", Animal: "🦜", Text: "text-rose", Sub: "sub-rose"}
	case balance < 500:
		return BillTheme{Background: "bg-orange", Border: "border-orange", Animal: "🐒", Text: "text-orange", Sub: "sub-orange"}
	case balance < 2000:
		return BillTheme{Background: "bg-yellow", Border: "border-yellow", Animal: "🐆", Text: "text-yellow", Sub: "sub-yellow"}
	default:
		return BillTheme{Background: "bg-cyan", Border: "border-cyan", Animal: "🐟", Text: "text-cyan", Sub: "sub-cyan"}
	}
}
