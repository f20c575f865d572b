package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wqs576222103/image-viewer/internal/config"
	"github.com/wqs576222103/image-viewer/internal/service"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			client := value.(*client)
			if time.Since(client.lastSeen) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// RateLimitMiddleware 登录接口限流。
// 优先使用 Redis 固定窗口计数（多实例共享），Redis 未启用或不可用时
// 回退为进程内每 IP 令牌桶。
func RateLimitMiddleware() gin.HandlerFunc {
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		cfg := config.Get().RateLimit
		if !cfg.Enabled {
			c.Next()
			return
		}

		ip := c.ClientIP()

		// 优先走 Redis 固定窗口
		if redisClient := service.GetRedisClient(); redisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			window := cfg.WindowSeconds
			if window <= 0 {
				window = 60
			}
			maxReq := cfg.MaxPerWindow
			if maxReq <= 0 {
				maxReq = 30
			}

			bucket := time.Now().Unix() / int64(window)
			key := service.RedisKey("rate", "login", ip, strconv.FormatInt(bucket, 10))

			count, err := redisClient.Incr(ctx, key).Result()
			if err == nil {
				if count == 1 {
					_ = redisClient.Expire(ctx, key, time.Duration(window)*time.Second).Err()
				}
				if count > int64(maxReq) {
					c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
					c.Abort()
					return
				}
				c.Next()
				return
			}
			// Redis 出错时继续走内存限流
		}

		once.Do(func() {
			rps := cfg.RPS
			if rps <= 0 {
				rps = 5
			}
			burst := cfg.Burst
			if burst <= 0 {
				burst = 10
			}
			limiter = NewIPRateLimiter(rate.Limit(rps), burst)
		})

		if !limiter.getLimiter(ip).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}
		c.Next()
	}
}
