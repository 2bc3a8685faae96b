package render

// Link is an entry of the breadcrumb trail.
type Link struct {
	URL   string
	Title string
}

// Breadcrumb describes the trail leading to the current page.
type Breadcrumb struct {
	Current string
	Links   []Link
	RootDir string
}

// Skiplink is an accessibility shortcut rendered at the top of every page.
type Skiplink struct {
	Link  string
	Label string
}

// Button is a submit or action control.
type Button struct {
	Label   string
	OnClick string
	Type    string
}

// Page is the payload shared by every page.
type Page struct {
	Title      string
	Breadcrumb Breadcrumb
	Skiplinks  []Skiplink
}

// NewPage builds the common payload for a page titled title.
func NewPage(title, rootDir string, links ...Link) Page {
	if links == nil {
		links = []Link{}
	}
	return Page{
		Title: title,
		Breadcrumb: Breadcrumb{
			Current: title,
			Links:   links,
			RootDir: rootDir,
		},
		Skiplinks: []Skiplink{
			{Link: "#content", Label: "Contenu"},
			{Link: "#fr-navigation", Label: "Menu"},
		},
	}
}
