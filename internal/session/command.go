package session

// Command is a side effect requested by a transition and carried out by the
// adapter that owns the render surface and the client connection.
type Command interface {
	Kind() string
}

// ReloadSurface asks for Documents[Index].Content to be loaded into the surface.
type ReloadSurface struct {
	Index int `json:"index"`
}

// ShowMenu places the highlight action menu.
type ShowMenu struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// HideMenu hides the highlight action menu.
type HideMenu struct{}

// Download offers an exported snapshot to the reader.
type Download struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Notice is a user-facing message that does not change state.
type Notice struct {
	Message string `json:"message"`
}

// TabsChanged signals that the tab projection should be redrawn.
type TabsChanged struct {
	Tabs []TabDescriptor `json:"tabs"`
}

func (ReloadSurface) Kind() string { return "surface.reload" }
func (ShowMenu) Kind() string      { return "menu.show" }
func (HideMenu) Kind() string      { return "menu.hide" }
func (Download) Kind() string      { return "download" }
func (Notice) Kind() string        { return "notice" }
func (TabsChanged) Kind() string   { return "tabs.updated" }
