package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloombay/store-backend/api/controllers"
	"github.com/bloombay/store-backend/api/middleware"
	"github.com/bloombay/store-backend/internal/cargo"
	"github.com/bloombay/store-backend/internal/coupons"
	"github.com/bloombay/store-backend/internal/questions"
	"github.com/bloombay/store-backend/internal/stores"
	"github.com/bloombay/store-backend/internal/subscriptions"
	"github.com/bloombay/store-backend/pkg/config"
	"github.com/bloombay/store-backend/pkg/db"
	"github.com/bloombay/store-backend/pkg/enums"
	"github.com/bloombay/store-backend/pkg/logger"
	"github.com/bloombay/store-backend/pkg/metrics"
	"github.com/bloombay/store-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	couponService coupons.Service,
	storeService stores.Service,
	subscriptionService subscriptions.Service,
	cargoService cargo.Service,
	questionService questions.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.CreateStore(storeService, logg))
			r.Get("/{storeID}", controllers.GetStore(storeService, logg))

			r.Route("/me", func(r chi.Router) {
				r.Use(middleware.RequireStore(logg))
				r.Get("/", controllers.GetMyStore(storeService, logg))
				r.Put("/", controllers.UpdateMyStore(storeService, logg))
				r.Put("/delivery-policy", controllers.UpdateDeliveryPolicy(storeService, logg))
				r.Get("/subscriptions", controllers.StoreSubscriptionsByDate(subscriptionService, logg))
				r.Route("/cargo", func(r chi.Router) {
					r.Post("/", controllers.RegisterCargo(cargoService, logg))
					r.Get("/", controllers.ListCargo(cargoService, logg))
					r.Put("/stock", controllers.ModifyStock(cargoService, logg))
				})
			})

			r.Route("/{storeID}/coupons", func(r chi.Router) {
				r.Get("/product", controllers.ListStoreCouponsForUser(couponService, logg))
				r.Get("/payment", controllers.ListPaymentCoupons(couponService, logg))
				r.Post("/download-all", controllers.DownloadAllCoupons(couponService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStore(logg))
					r.Post("/", controllers.CreateCoupon(couponService, logg))
					r.Get("/", controllers.ListStoreCouponsForOwner(couponService, logg))
					r.Put("/{couponID}", controllers.EditCoupon(couponService, logg))
					r.Delete("/{couponID}", controllers.DeleteCoupon(couponService, logg))
				})
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/my", controllers.MyCoupons(couponService, logg))
			r.Post("/{couponID}/download", controllers.DownloadCoupon(couponService, logg))
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.ActorRoleService), logg)).
				Post("/", controllers.CreateSubscription(subscriptionService, logg))
			r.Get("/my", controllers.MySubscriptions(subscriptionService, logg))
			r.Get("/order/{orderSubscriptionID}", controllers.GetSubscriptionByOrder(subscriptionService, logg))
		})

		r.Route("/questions", func(r chi.Router) {
			r.Post("/", controllers.CreateQuestion(questionService, logg))
			r.Get("/my", controllers.MyQuestions(questionService, logg))
			r.With(middleware.RequireStore(logg)).
				Post("/{questionID}/answer", controllers.AnswerQuestion(questionService, logg))
			r.With(middleware.RequireStore(logg)).
				Post("/{questionID}/read", controllers.MarkQuestionRead(questionService, logg))
		})

		r.Get("/products/{productID}/questions", controllers.ListProductQuestions(questionService, logg))
	})

	return r
}
