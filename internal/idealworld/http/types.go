package http

type generateRequest struct {
	Name           string `json:"name"`
	IdealWorldText string `json:"idealWorldText"`
}

type generateResponse struct {
	Name           string `json:"name"`
	IdealWorldText string `json:"idealWorldText"`
	ImageURL       string `json:"imageUrl"`
}

type worldPage struct {
	Name string
}

type resultPage struct {
	Name           string
	IdealWorldText string
	ImageURL       string
}
