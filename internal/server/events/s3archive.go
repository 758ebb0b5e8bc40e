package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the archive bucket.
type S3Options struct {
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	BaseEndpoint  string
	Prefix        string
	BatchSize     int
	FlushInterval time.Duration
	QueueSize     int
}

// S3Archive batches events into JSON-lines objects in an S3-compatible
// bucket. Emit only enqueues; Run owns the batching loop.
type S3Archive struct {
	putter   objectPutter
	bucket   string
	prefix   string
	batch    int
	interval time.Duration
	queue    chan models.Event
	logger   logging.Logger

	mu      sync.Mutex
	dropped int
}

// NewS3Archive builds the S3 client with static credentials and a custom
// endpoint, so MinIO works the same as AWS.
func NewS3Archive(ctx context.Context, o S3Options, l logging.Logger) (*S3Archive, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})

	return newS3Archive(client, o, l), nil
}

func newS3Archive(p objectPutter, o S3Options, l logging.Logger) *S3Archive {
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 10 * time.Second
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 1024
	}
	return &S3Archive{
		putter:   p,
		bucket:   o.Bucket,
		prefix:   o.Prefix,
		batch:    o.BatchSize,
		interval: o.FlushInterval,
		queue:    make(chan models.Event, o.QueueSize),
		logger:   l.With("module", "event_archive"),
	}
}

// Emit enqueues e. When the queue is full the event is dropped and counted.
func (a *S3Archive) Emit(ctx context.Context, e models.Event) {
	select {
	case a.queue <- e:
	default:
		a.mu.Lock()
		a.dropped++
		a.mu.Unlock()
		a.logger.Warn(ctx, "event archive queue full, dropping event", "id", e.ID.String(), "kind", string(e.Kind))
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (a *S3Archive) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Run batches queued events until ctx is done, then flushes what is left.
func (a *S3Archive) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	pending := make([]models.Event, 0, a.batch)
	for {
		select {
		case e := <-a.queue:
			pending = append(pending, e)
			if len(pending) >= a.batch {
				a.flush(ctx, pending)
				pending = pending[:0]
			}
		case <-ticker.C:
			if len(pending) > 0 {
				a.flush(ctx, pending)
				pending = pending[:0]
			}
		case <-ctx.Done():
			pending = a.drain(pending)
			if len(pending) > 0 {
				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				a.flush(flushCtx, pending)
				cancel()
			}
			return
		}
	}
}

func (a *S3Archive) drain(pending []models.Event) []models.Event {
	for {
		select {
		case e := <-a.queue:
			pending = append(pending, e)
		default:
			return pending
		}
	}
}

func (a *S3Archive) flush(ctx context.Context, batch []models.Event) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range batch {
		if err := enc.Encode(e); err != nil {
			a.logger.Error(ctx, "encode event", "id", e.ID.String(), "error", err)
		}
	}

	key := a.objectKey()
	_, err := a.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		a.logger.Error(ctx, "archive events", "key", key, "count", len(batch), "error", err)
		return
	}
	a.logger.Debug(ctx, "archived events", "key", key, "count", len(batch))
}

func (a *S3Archive) objectKey() string {
	d := now().UTC()
	return fmt.Sprintf("%sevents/%04d/%02d/%02d/%v.jsonl", a.prefix, d.Year(), d.Month(), d.Day(), uuid.New())
}
