package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"gymbook/internal/logger"
	"gymbook/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3

	pollTimeout        = 2 * time.Second
	queueGaugeInterval = 15 * time.Second

	TypeEnrollmentConfirmation = "enrollment_confirmation"
	TypeEnrollmentCancellation = "enrollment_cancellation"
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From      string
	FromName  string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	RedisAddr string
}

// Service queues outgoing mail in Redis and delivers it over SMTP from a
// single worker started with Start.
type Service struct {
	redis      *redis.Client
	from       string
	fromName   string
	smtpHost   string
	smtpPort   string
	smtpUser   string
	smtpPass   string
	retryDelay time.Duration

	// backoff bounds while Redis is unreachable
	backoffMin    time.Duration
	backoffMax    time.Duration
	gaugeInterval time.Duration

	send func(job EmailJob) error
	wait func(ctx context.Context, d time.Duration) bool
}

func New(cfg Config) *Service {
	return newService(redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	}), cfg)
}

func newService(rdb *redis.Client, cfg Config) *Service {
	s := &Service{
		redis:      rdb,
		from:       cfg.From,
		fromName:   cfg.FromName,
		smtpHost:   cfg.SMTPHost,
		smtpPort:   cfg.SMTPPort,
		smtpUser:   cfg.SMTPUser,
		smtpPass:   cfg.SMTPPass,
		retryDelay: 5 * time.Second,

		backoffMin:    time.Second,
		backoffMax:    30 * time.Second,
		gaugeInterval: queueGaugeInterval,
	}
	s.send = s.sendNow
	s.wait = sleepContext
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Send(ctx context.Context, to, name, emailType, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Type:    emailType,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	return s.enqueue(ctx, job)
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Error("failed to marshal email job", "error", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "to", job.To, "error", err)
		return err
	}

	logger.Info("email queued", "subject", job.Subject, "to", job.To)
	return nil
}

// Start consumes the queue until ctx is done. While Redis is unreachable the
// worker logs once and retries with exponential backoff.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email service started")
	if s.gaugeInterval > 0 {
		go s.watchQueueLength(ctx, s.gaugeInterval)
	}

	var backoff time.Duration
	for ctx.Err() == nil {
		err := s.processNext(ctx)
		if err == nil {
			if backoff > 0 {
				logger.Info("email queue reachable again")
				backoff = 0
			}
			continue
		}
		if ctx.Err() != nil {
			break
		}

		if backoff == 0 {
			logger.Error("email queue unavailable, backing off", "error", err)
			backoff = s.backoffMin
		} else {
			backoff = min(backoff*2, s.backoffMax)
		}
		if !s.wait(ctx, backoff) {
			break
		}
	}

	logger.Info("email service stopped")
}

func (s *Service) watchQueueLength(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refreshQueueLength(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshQueueLength(ctx)
		}
	}
}

// refreshQueueLength leaves the gauge at its last value when Redis can't
// answer.
func (s *Service) refreshQueueLength(ctx context.Context) {
	n, err := s.QueueLength(ctx)
	if err != nil {
		logger.Debug("queue length unavailable", "error", err)
		return
	}
	metrics.EmailQueueLength.Set(float64(n))
}

// processNext handles at most one job. It returns an error only when the
// queue itself could not be read; an empty queue is not an error.
func (s *Service) processNext(ctx context.Context) error {
	result, err := s.redis.BRPop(ctx, pollTimeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email data", "error", err)
		return nil
	}

	job.Tries++
	logger.Debugf("sending email to %s (attempt %d/%d)", job.To, job.Tries, maxTries)
	if err := s.send(job); err != nil {
		logger.Error("failed to send email", "to", job.To, "attempt", job.Tries, "error", err)
		metrics.RecordEmail(job.Type, "failed")

		if job.Tries < maxTries {
			if s.retryDelay > 0 {
				s.wait(ctx, s.retryDelay)
			}
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
			logger.Info("retrying email", "to", job.To, "attempt", job.Tries+1)
		} else {
			logger.Error("email failed after max attempts", "to", job.To, "attempts", maxTries)
			s.saveFailed(job, err)
		}
		return nil
	}

	metrics.RecordEmail(job.Type, "success")
	logger.Info("email sent", "to", job.To)
	return nil
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To)
}

func (s *Service) QueueLength(ctx context.Context) (int64, error) {
	return s.redis.LLen(ctx, queueKey).Result()
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendEnrollmentConfirmation(ctx context.Context, email, name, className string, start *time.Time) error {
	subject := "Class Booked - " + className
	body := fmt.Sprintf(`Hi %s,

You have a seat in %s.
Time: %s

See you at the gym!

- GymBook Team`, name, className, formatWhen(start))

	return s.Send(ctx, email, name, TypeEnrollmentConfirmation, subject, body)
}

func (s *Service) SendEnrollmentCancellation(ctx context.Context, email, name, className string) error {
	subject := "Class Cancelled - " + className
	body := fmt.Sprintf(`Hi %s,

You are no longer enrolled in %s. Your seat has been released.

- GymBook Team`, name, className)

	return s.Send(ctx, email, name, TypeEnrollmentCancellation, subject, body)
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func formatWhen(t *time.Time) string {
	if t == nil {
		return "to be announced"
	}
	return t.Format("Jan 2, 2006 at 3:04 PM")
}
