package dto

type PublishNewsletterRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
