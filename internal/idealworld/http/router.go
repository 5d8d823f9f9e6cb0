package http

import "github.com/gin-gonic/gin"

// Register registers the page, asset and generation routes
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Index)
	r.GET("/name", h.NamePage)
	r.GET("/world", h.WorldPage)
	r.GET("/result", h.ResultPage)

	r.POST("/generate", h.Generate)

	r.GET("/image/:fileName", h.ServeImage)
	r.GET("/audio/:fileName", h.ServeAudio)
	r.GET("/audio/personalized/:name", h.PersonalizedAudio)
	r.GET("/question-audio", h.QuestionAudio)
}
