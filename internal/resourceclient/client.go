package resourceclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"WellnessHub/internal/breaker"
	"WellnessHub/internal/config"
	"WellnessHub/internal/interfaces"
	"WellnessHub/internal/metrics"
	"WellnessHub/internal/model"
	"WellnessHub/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

var (
	errNotFound      = errors.New("resource catalog: not found")
	errCallerAborted = errors.New("resource catalog: caller aborted")
)

// statusError 远端返回的非 2xx 状态；5xx 计为熔断失败，4xx 不计
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("resource catalog: status %d: %s", e.Code, e.Body)
}

// Client 资源目录客户端：超时 + 熔断 + 空结果兜底，对调用方永不返回错误
type Client struct {
	caller     string
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *breaker.Breaker
	logger     *logrus.Logger
}

var _ interfaces.ResourceFetcher = (*Client)(nil)

// NewClient 创建客户端；caller 标识调用方服务，每个实例拥有独立的熔断器
func NewClient(caller string, cfg config.ResourceClientConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	path := cfg.ResourcesPath
	if path == "" {
		path = "/api/resources"
	}
	bcfg := cfg.Breaker
	if bcfg.Name == "" {
		bcfg.Name = caller + ":resource-service"
	}
	// http.Client 超时只做兜底，单次请求超时由 context 控制
	httpCfg := cfg
	httpCfg.Timeout = timeout + time.Second

	return &Client{
		caller:     caller,
		endpoint:   strings.TrimSuffix(cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/"),
		timeout:    timeout,
		httpClient: httpclient.NewHTTPClient(&httpCfg, logger),
		breaker:    breaker.New(bcfg, isSuccessful, isExcluded, logger),
		logger:     logger,
	}
}

// Breaker 暴露熔断器（状态查询与测试用）
func (c *Client) Breaker() *breaker.Breaker { return c.breaker }

// Fetch 查询资源；任何失败都返回空切片
func (c *Client) Fetch(ctx context.Context, filter interfaces.ResourceFilter) []model.Resource {
	log := c.logger.WithFields(logrus.Fields{
		"caller":   c.caller,
		"breaker":  c.breaker.Name(),
		"category": filter.Category,
		"eventId":  filter.EventID,
	})

	if ctx.Err() != nil {
		metrics.CatalogRequests.WithLabelValues(c.caller, "aborted").Inc()
		return c.fallback(log, ctx.Err())
	}

	out, err := breaker.Do(c.breaker, func() ([]model.Resource, error) {
		return c.get(ctx, filter)
	})

	var se *statusError
	switch {
	case err == nil:
		metrics.CatalogRequests.WithLabelValues(c.caller, "success").Inc()
		if out == nil {
			out = []model.Resource{}
		}
		return out
	case errors.Is(err, errNotFound):
		metrics.CatalogRequests.WithLabelValues(c.caller, "not_found").Inc()
		return []model.Resource{}
	case breaker.IsRejected(err):
		metrics.CatalogRequests.WithLabelValues(c.caller, "rejected").Inc()
		return c.fallback(log, err)
	case errors.Is(err, errCallerAborted):
		metrics.CatalogRequests.WithLabelValues(c.caller, "aborted").Inc()
		return c.fallback(log, err)
	case errors.As(err, &se) && se.Code < http.StatusInternalServerError:
		metrics.CatalogRequests.WithLabelValues(c.caller, "client_error").Inc()
		log.WithError(err).Warn("资源目录拒绝请求，返回空结果")
		return []model.Resource{}
	default:
		metrics.CatalogRequests.WithLabelValues(c.caller, "failure").Inc()
		return c.fallback(log, err)
	}
}

func (c *Client) fallback(log *logrus.Entry, cause error) []model.Resource {
	metrics.CatalogFallbacks.WithLabelValues(c.caller).Inc()
	log.WithError(cause).WithField("state", c.breaker.State().String()).Warn("资源目录不可用，返回兜底空结果")
	return []model.Resource{}
}

func (c *Client) get(ctx context.Context, filter interfaces.ResourceFilter) ([]model.Resource, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.EventID > 0 {
		q.Set("eventId", strconv.FormatUint(filter.EventID, 10))
	}
	target := c.endpoint
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", errCallerAborted, ctx.Err())
		}
		return nil, fmt.Errorf("resource catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{Code: resp.StatusCode, Body: string(body)}
	}

	var out []model.Resource
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", errCallerAborted, ctx.Err())
		}
		return nil, fmt.Errorf("decode resource catalog response: %w", err)
	}
	if out == nil {
		out = []model.Resource{}
	}
	return out, nil
}

// isSuccessful 熔断器的成功判定：404 与其他 4xx 不算远端故障
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, errNotFound) {
		return true
	}
	var se *statusError
	return errors.As(err, &se) && se.Code < http.StatusInternalServerError
}

// isExcluded 调用方主动取消时没有拿到任何远端结果，不计入熔断统计
func isExcluded(err error) bool {
	return errors.Is(err, errCallerAborted)
}
