// Registro de rutas de la API de ParDespué.
package pardespue

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/lromnav497/pardespue/internal/http/handlers/auth/login"
	"github.com/lromnav497/pardespue/internal/http/handlers/auth/register"
	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/checkpassword"
	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/create"
	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/listpublic"
	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/listuser"
	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/read"
	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/remove"
	"github.com/lromnav497/pardespue/internal/http/handlers/capsule/update"
	"github.com/lromnav497/pardespue/internal/http/handlers/category/categorylist"
	"github.com/lromnav497/pardespue/internal/http/handlers/comment/commentcreate"
	"github.com/lromnav497/pardespue/internal/http/handlers/comment/commentlist"
	"github.com/lromnav497/pardespue/internal/http/handlers/comment/commentremove"
	"github.com/lromnav497/pardespue/internal/http/handlers/comment/commentupdate"
	"github.com/lromnav497/pardespue/internal/http/handlers/content/contentadd"
	"github.com/lromnav497/pardespue/internal/http/handlers/content/contentlist"
	"github.com/lromnav497/pardespue/internal/http/handlers/content/contentremove"
	"github.com/lromnav497/pardespue/internal/http/handlers/health"
	"github.com/lromnav497/pardespue/internal/http/handlers/like/liketoggle"
	"github.com/lromnav497/pardespue/internal/http/handlers/notification/notificationlist"
	"github.com/lromnav497/pardespue/internal/http/handlers/notification/notificationread"
	"github.com/lromnav497/pardespue/internal/http/handlers/payment/paymentcheckout"
	"github.com/lromnav497/pardespue/internal/http/handlers/payment/paymentwebhook"
	"github.com/lromnav497/pardespue/internal/http/handlers/recipient/recipientadd"
	"github.com/lromnav497/pardespue/internal/http/handlers/recipient/recipientlist"
	"github.com/lromnav497/pardespue/internal/http/handlers/recipient/recipientremove"
	"github.com/lromnav497/pardespue/internal/http/handlers/recipient/shared"
	"github.com/lromnav497/pardespue/internal/http/handlers/subscription/cancel"
	"github.com/lromnav497/pardespue/internal/http/handlers/subscription/cancreate"
	"github.com/lromnav497/pardespue/internal/http/handlers/subscription/changeplan"
	"github.com/lromnav497/pardespue/internal/http/handlers/subscription/myplan"
	"github.com/lromnav497/pardespue/internal/http/middlewarectx"
	authservice "github.com/lromnav497/pardespue/internal/services/auth"
	capsuleservice "github.com/lromnav497/pardespue/internal/services/capsule"
	commentservice "github.com/lromnav497/pardespue/internal/services/comment"
	contentservice "github.com/lromnav497/pardespue/internal/services/content"
	likeservice "github.com/lromnav497/pardespue/internal/services/like"
	notificationservice "github.com/lromnav497/pardespue/internal/services/notification"
	paymentservice "github.com/lromnav497/pardespue/internal/services/payment"
	planservice "github.com/lromnav497/pardespue/internal/services/plan"
	recipientservice "github.com/lromnav497/pardespue/internal/services/recipient"
)

// Services agrupa los servicios que consumen los handlers.
type Services struct {
	Auth         *authservice.Service
	Plan         *planservice.Service
	Capsule      *capsuleservice.Service
	Recipient    *recipientservice.Service
	Content      *contentservice.Service
	Comment      *commentservice.Service
	Like         *likeservice.Service
	Notification *notificationservice.Service
	Payment      *paymentservice.Service
	Catalog      categorylist.Catalog
	HealthCheck  health.Checker
}

// RegisterRoutes registra todas las rutas de la aplicación. Las rutas de
// lectura pública llevan el JWT opcional para que la puerta de acceso
// conozca al solicitante cuando lo hay; el resto exige token.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svcs *Services, webhookSecret string) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Rutas sin autenticación.
		r.Post("/register", register.New(logger, svcs.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svcs.Auth).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, svcs.Catalog).ServeHTTP)
		r.Get("/health", health.New(logger, svcs.HealthCheck).ServeHTTP)

		// Lectura pública con identidad opcional.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(svcs.Auth, logger))
			r.Get("/capsules/public", listpublic.New(logger, svcs.Capsule).ServeHTTP)
			r.Get("/capsules/{id}", read.New(logger, svcs.Capsule).ServeHTTP)
			r.Post("/capsules/{id}/check-password", checkpassword.New(logger, svcs.Capsule).ServeHTTP)
			r.Get("/capsules/{id}/comments", commentlist.New(logger, svcs.Comment).ServeHTTP)
		})

		// Grupo con autenticación JWT obligatoria.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svcs.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/capsules", create.New(logger, svcs.Capsule).ServeHTTP)
			r.Get("/capsules/user/{userUID}", listuser.New(logger, svcs.Capsule).ServeHTTP)
			r.Get("/capsules/shared", shared.New(logger, svcs.Recipient).ServeHTTP)
			r.Put("/capsules/{id}", update.New(logger, svcs.Capsule).ServeHTTP)
			r.Delete("/capsules/{id}", remove.New(logger, svcs.Capsule).ServeHTTP)

			r.Post("/capsules/{id}/contents", contentadd.New(logger, svcs.Content).ServeHTTP)
			r.Get("/capsules/{id}/contents", contentlist.New(logger, svcs.Content).ServeHTTP)
			r.Delete("/contents/{contentID}", contentremove.New(logger, svcs.Content).ServeHTTP)

			r.Post("/capsules/{id}/recipients", recipientadd.New(logger, svcs.Recipient).ServeHTTP)
			r.Get("/capsules/{id}/recipients", recipientlist.New(logger, svcs.Recipient).ServeHTTP)
			r.Delete("/capsules/{id}/recipients/{userUID}", recipientremove.New(logger, svcs.Recipient).ServeHTTP)

			r.Post("/capsules/{id}/comments", commentcreate.New(logger, svcs.Comment).ServeHTTP)
			r.Put("/comments/{commentID}", commentupdate.New(logger, svcs.Comment).ServeHTTP)
			r.Delete("/comments/{commentID}", commentremove.New(logger, svcs.Comment).ServeHTTP)
			r.Post("/capsules/{id}/like", liketoggle.New(logger, svcs.Like).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, svcs.Notification).ServeHTTP)
			r.Put("/notifications/{id}/read", notificationread.New(logger, svcs.Notification).ServeHTTP)

			r.Get("/subscriptions/my-plan", myplan.New(logger, svcs.Plan).ServeHTTP)
			r.Delete("/subscriptions/my-plan", cancel.New(logger, svcs.Plan).ServeHTTP)
			r.Get("/subscriptions/can-create-capsule", cancreate.New(logger, svcs.Plan).ServeHTTP)
			r.Post("/subscriptions/change-plan", changeplan.New(logger, svcs.Plan).ServeHTTP)
			r.Post("/payments/checkout", paymentcheckout.New(logger, svcs.Payment).ServeHTTP)
		})

		// Webhook del proveedor de pagos, protegido por secreto compartido.
		r.Post("/payments/webhook", paymentwebhook.New(logger, svcs.Payment, webhookSecret).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
