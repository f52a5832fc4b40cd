package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"nurse-ats-go/internal/api/handler"
	"nurse-ats-go/internal/constants"
)

// RegisterRoutes wires the HTTP surface. Health stays unauthenticated; the
// rest of the API requires a bearer token when api keys are configured.
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, apiKeys []string) {
	h.GET("/api/v1/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{
			"status":         "ok",
			"parser_version": constants.ParserVersion,
		})
	})

	api := h.Group("/api/v1")
	if len(apiKeys) > 0 {
		api.Use(bearerAuth(apiKeys))
	}

	api.POST("/resumes/upload", resumeHandler.UploadResume)
	api.GET("/resumes/current", resumeHandler.GetCurrentResume)
	api.POST("/profiles/:profile_id/picture", resumeHandler.UploadProfilePicture)
}

func bearerAuth(apiKeys []string) app.HandlerFunc {
	allowed := make(map[string]bool, len(apiKeys))
	for _, key := range apiKeys {
		allowed[key] = true
	}

	return keyauth.New(
		keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
		keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
			return allowed[key], nil
		}),
	)
}
