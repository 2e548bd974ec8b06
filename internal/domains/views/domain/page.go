package domain

// View model keys shared by handlers and templates.
const (
	KeyTitle  = "title"
	KeyDesc   = "desc"
	KeyAuthor = "author"
)

// AttributeKeys lists every key a Page contributes to the view model.
var AttributeKeys = []string{KeyTitle, KeyDesc, KeyAuthor}

// Author is the person shown on a page.
type Author struct {
	Age   int
	Name  string
	Email string
}

// Page pairs a template name with the values it renders.
type Page struct {
	Name   string
	Title  string
	Desc   string
	Author Author
}

// Attributes returns the page as a fresh view model.
func (p Page) Attributes() map[string]any {
	return map[string]any{
		KeyTitle:  p.Title,
		KeyDesc:   p.Desc,
		KeyAuthor: p.Author,
	}
}
