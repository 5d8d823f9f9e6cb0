package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/eon-interface/idealworld/internal/idealworld/domain"
	"github.com/eon-interface/idealworld/internal/logging"
	"github.com/eon-interface/idealworld/internal/speech"
	"github.com/eon-interface/idealworld/internal/storage"
	"github.com/gin-gonic/gin"
)

const (
	defaultName        = "Usuário"
	defaultDescription = "Descrição não disponível"
)

// Generator runs one submission through the pipeline.
type Generator interface {
	Run(ctx context.Context, sub domain.Submission) (*domain.Generation, error)
}

// Greeter resolves the personalized greeting audio for a name.
type Greeter interface {
	Greeting(ctx context.Context, name string) (string, error)
}

type Handler struct {
	generator     Generator
	greeter       Greeter
	images        *storage.Dir
	audios        *storage.Dir
	publicBaseURL string
}

func New(generator Generator, greeter Greeter, images, audios *storage.Dir, publicBaseURL string) *Handler {
	return &Handler{
		generator:     generator,
		greeter:       greeter,
		images:        images,
		audios:        audios,
		publicBaseURL: publicBaseURL,
	}
}

// Generate validates a submission and, when aligned, produces its image.
func (h *Handler) Generate(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	gen, err := h.generator.Run(c.Request.Context(), domain.Submission{
		Name:           body.Name,
		IdealWorldText: body.IdealWorldText,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
			return
		}

		cause := err
		var perr *domain.PipelineError
		if errors.As(err, &perr) {
			cause = perr.Err
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar conteúdo: " + cause.Error()})
		return
	}

	resp := generateResponse{
		Name:           gen.Name,
		IdealWorldText: gen.IdealWorldText,
		ImageURL:       h.baseURL(c) + "/image/" + url.PathEscape(gen.FileName),
	}
	logging.New(c.Request.Context()).Infof("generate", "stage=%s image_url=%s", domain.StageResponded, resp.ImageURL)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ServeImage(c *gin.Context) {
	serveFile(c, h.images, c.Param("fileName"), "Erro ao carregar imagem")
}

func (h *Handler) ServeAudio(c *gin.Context) {
	serveFile(c, h.audios, c.Param("fileName"), "Erro ao carregar áudio")
}

func (h *Handler) QuestionAudio(c *gin.Context) {
	serveFile(c, h.audios, speech.QuestionFile, "Erro ao carregar áudio")
}

// PersonalizedAudio returns the greeting for a name, generating it on first use.
func (h *Handler) PersonalizedAudio(c *gin.Context) {
	name := c.Param("name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	path, err := h.greeter.Greeting(c.Request.Context(), name)
	if err != nil {
		logging.New(c.Request.Context()).Error("personalized_audio", err)
		c.String(http.StatusNotFound, "Erro ao carregar áudio: %v", err)
		return
	}
	c.File(path)
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (h *Handler) NamePage(c *gin.Context) {
	c.HTML(http.StatusOK, "name.html", nil)
}

func (h *Handler) WorldPage(c *gin.Context) {
	c.HTML(http.StatusOK, "world.html", worldPage{
		Name: c.DefaultQuery("name", defaultName),
	})
}

func (h *Handler) ResultPage(c *gin.Context) {
	c.HTML(http.StatusOK, "result.html", resultPage{
		Name:           c.DefaultQuery("name", defaultName),
		IdealWorldText: c.DefaultQuery("idealWorldText", defaultDescription),
		ImageURL:       c.Query("imageUrl"),
	})
}

// baseURL is the configured public URL, or the one the client used to reach us.
func (h *Handler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

func serveFile(c *gin.Context, dir *storage.Dir, name, errPrefix string) {
	path, err := dir.Path(name)
	if err == nil && !dir.Exists(name) {
		err = errors.New("arquivo não encontrado: " + name)
	}
	if err != nil {
		c.String(http.StatusNotFound, "%s: %v", errPrefix, err)
		return
	}
	c.File(path)
}
