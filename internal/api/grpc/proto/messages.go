package proto

// Tool is one link of a category.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	RemoteID    string `json:"remoteId,omitempty"`
}

// Category is a named group of tools.
type Category struct {
	Name  string  `json:"category"`
	Tools []*Tool `json:"tools"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
}

type LoadRequest struct{}

type LoadResponse struct {
	Categories []*Category `json:"categories"`
}

type AddToolRequest struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type AddToolResponse struct {
	Tool *Tool `json:"tool"`
}

type DeleteToolRequest struct {
	RemoteID string `json:"remoteId"`
}

type DeleteToolResponse struct{}

type DeleteCategoryRequest struct {
	Category string `json:"category"`
}

type DeleteCategoryResponse struct {
	Deleted int `json:"deleted"`
}

type ExportRequest struct{}

type ExportResponse struct {
	Key string `json:"key"`
}
