package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "idempotency:"
)

// storedReply is the cached outcome of an idempotent request.
type storedReply struct {
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type"`
}

// captureWriter tees the response body so it can be replayed for a
// repeated request.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for mutating
// requests that repeat an Idempotency-Key within the TTL. Admin retry
// of approve/confirm/mark-paid thus cannot double-apply. Redis
// trouble degrades to processing the request normally.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyPrefix + key

		if reply, err := loadReply(ctx, redisClient, cacheKey); err == nil && reply != nil {
			ct := reply.ContentType
			if ct == "" {
				ct = "application/json"
			}
			c.Data(reply.StatusCode, ct, reply.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		// Server errors are not cached so a retry can succeed.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			saveReply(ctx, redisClient, cacheKey, &storedReply{
				StatusCode:  c.Writer.Status(),
				Body:        w.body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
			})
		}
	}
}

func loadReply(ctx context.Context, client *redis.Client, key string) (*storedReply, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var reply storedReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func saveReply(ctx context.Context, client *redis.Client, key string, reply *storedReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	_ = client.Set(ctx, key, data, idempotencyTTL).Err()
}
