package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/common/errors"
	"vocab-progress-backend/internal/common/logger"
)

const (
	learnerIDKey     = "learner_id"
	LearnerHeader    = "X-Learner-ID"
	LearnerCookie    = "learner_id"
	learnerCookieAge = 400 * 24 * time.Hour
)

// Learner определяет, чей это прогресс: Telegram init-data, затем заголовок,
// затем cookie, иначе выдаётся новый id.
func Learner(cfg config.TelegramConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("init_data")
		if raw == "" {
			raw = c.GetHeader("X-Telegram-Init-Data")
		}

		if raw != "" && cfg.BotToken != "" {
			if err := initdata.Validate(raw, cfg.BotToken, cfg.InitDataTTL); err != nil {
				logger.Debug().Err(err).Msg("Init data validation failed")
				Abort(c, errors.NewUnauthorizedError("invalid init data"))
				return
			}
			parsed, err := initdata.Parse(raw)
			if err != nil || parsed.User.ID == 0 {
				Abort(c, errors.NewUnauthorizedError("init data has no user"))
				return
			}
			c.Set(learnerIDKey, "tg:"+strconv.FormatInt(parsed.User.ID, 10))
			c.Next()
			return
		}

		if cfg.Required {
			Abort(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		if id := c.GetHeader(LearnerHeader); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				Abort(c, errors.NewValidationError(LearnerHeader, "must be a UUID"))
				return
			}
			c.Set(learnerIDKey, id)
			c.Next()
			return
		}

		if id, err := c.Cookie(LearnerCookie); err == nil {
			if _, err := uuid.Parse(id); err == nil {
				c.Set(learnerIDKey, id)
				c.Next()
				return
			}
		}

		id := uuid.New().String()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(LearnerCookie, id, int(learnerCookieAge.Seconds()), "/", "", false, true)
		c.Header(LearnerHeader, id)
		c.Set(learnerIDKey, id)
		c.Next()
	}
}

// GetLearnerID возвращает id ученика, определённый Learner
func GetLearnerID(c *gin.Context) string {
	if v, ok := c.Get(learnerIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
