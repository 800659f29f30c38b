package middleware

import (
	"errors"
	"time"

	"cafechain/internal/config"
	"cafechain/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

const (
	apiRequestsPerMinute = 100
	otpRequestsPerMinute = 10
)

var securityHeaders = helmet.Config{
	XSSProtection:             "1; mode=block",
	ContentTypeNosniff:        "nosniff",
	XFrameOptions:             "DENY",
	ReferrerPolicy:            "no-referrer",
	CrossOriginOpenerPolicy:   "same-origin",
	CrossOriginResourcePolicy: "same-site",
	PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
}

// Setup installs the global chain. The request logger sits right after
// recovery so rate-limited and rejected requests are logged too.
func Setup(app *fiber.App, cfg *config.Config, log *logrus.Entry) {
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDev()}))
	app.Use(RequestLogger(log))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(helmet.New(securityHeaders))
	app.Use(rateLimit(apiRequestsPerMinute, "api", "Too many requests", "Please slow down and try again shortly"))
	app.Use(cors.New(corsConfig(cfg)))
}

// OTPRateLimiter limits code requests and verification attempts per IP.
// Challenges themselves have no attempt limit.
func OTPRateLimiter() fiber.Handler {
	return rateLimit(otpRequestsPerMinute, "otp", "Too many redemption attempts", "Please wait a minute before trying again")
}

// rateLimit allows max requests per IP per minute. Each scope keeps its own
// bucket, so OTP attempts do not eat into the general allowance.
func rateLimit(max int, scope, reason, hint string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return scope + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(response.Response{
				Success: false,
				Error:   reason,
				Message: hint,
			})
		},
	})
}

// corsConfig opens every origin in dev. Credentials are only allowed
// with an explicit origin list; fiber refuses them next to a wildcard.
func corsConfig(cfg *config.Config) cors.Config {
	origins := cfg.GetAllowedOrigins()
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: origins != "*",
	}
}

// RequestLogger writes one structured line per request. Server errors log
// at error level, client errors at warn, everything else at info.
func RequestLogger(log *logrus.Entry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The app error handler runs after us; report what it will send
			status = statusOf(err)
		}

		entry := log.WithFields(logrus.Fields{
			"status":  status,
			"method":  c.Method(),
			"path":    c.Path(),
			"ip":      c.IP(),
			"latency": time.Since(start).String(),
		})
		if err != nil {
			entry = entry.WithError(err)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request served")
		}
		return err
	}
}

// CustomErrorHandler renders errors that escape the handlers in the
// standard response envelope. Only fiber errors expose their message.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	return response.Error(c, code, message)
}

func statusOf(err error) int {
	var e *fiber.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return fiber.StatusInternalServerError
}
