package events

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recLogger struct {
	logging.Nop
	mu   sync.Mutex
	msgs []string
	args [][]any
}

func (r *recLogger) Info(_ context.Context, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	r.args = append(r.args, args)
}

func (r *recLogger) With(...any) logging.Logger { return r }

type recSink struct {
	got []models.Event
}

func (s *recSink) Emit(_ context.Context, e models.Event) { s.got = append(s.got, e) }

type putCall struct {
	bucket, key, contentType string
	body                     []byte
}

type fakePutter struct {
	mu    sync.Mutex
	calls []putCall
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, putCall{
		bucket:      aws.ToString(in.Bucket),
		key:         aws.ToString(in.Key),
		contentType: aws.ToString(in.ContentType),
		body:        b,
	})
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakePutter) snapshot() []putCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]putCall(nil), f.calls...)
}

func crafted(n uint64) models.Event {
	return models.NewEvent(models.EventRunesCrafted, 1_700_000_000, models.RunesCrafted{
		Burned: n, Received: n, TotalRunes: n,
	})
}

func lines(b []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out
}

func TestLogSink_Emit(t *testing.T) {
	l := &recLogger{}
	s := NewLogSink(l)
	e := crafted(5)

	s.Emit(context.Background(), e)

	require.Len(t, l.msgs, 1)
	assert.Equal(t, "event", l.msgs[0])
	assert.Contains(t, l.args[0], e.ID.String())
	assert.Contains(t, l.args[0], string(models.EventRunesCrafted))
}

func TestFanout_Order(t *testing.T) {
	a, b := &recSink{}, &recSink{}
	f := Fanout{a, b}
	e1, e2 := crafted(1), crafted(2)

	f.Emit(context.Background(), e1)
	f.Emit(context.Background(), e2)

	assert.Equal(t, []models.Event{e1, e2}, a.got)
	assert.Equal(t, []models.Event{e1, e2}, b.got)
}

func TestS3Archive_BatchesAndFinalFlush(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })
	now = func() time.Time { return time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC) }

	p := &fakePutter{}
	a := newS3Archive(p, S3Options{Bucket: "spells", Prefix: "prod/", BatchSize: 2, FlushInterval: time.Hour}, logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	for i := uint64(1); i <= 3; i++ {
		a.Emit(ctx, crafted(i))
	}
	go func() {
		a.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(p.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	calls := p.snapshot()
	require.Len(t, calls, 2)

	for _, c := range calls {
		assert.Equal(t, "spells", c.bucket)
		assert.Equal(t, "application/x-ndjson", c.contentType)
		assert.True(t, strings.HasPrefix(c.key, "prod/events/2026/03/07/"), c.key)
		assert.True(t, strings.HasSuffix(c.key, ".jsonl"), c.key)
	}
	assert.NotEqual(t, calls[0].key, calls[1].key)

	first := lines(calls[0].body)
	require.Len(t, first, 2)
	assert.Len(t, lines(calls[1].body), 1)

	var decoded struct {
		Kind    string `json:"kind"`
		Payload struct {
			Burned string `json:"burned"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(first[0]), &decoded))
	assert.Equal(t, "runes_crafted", decoded.Kind)
	assert.Equal(t, "1", decoded.Payload.Burned)
}

func TestS3Archive_TickerFlush(t *testing.T) {
	p := &fakePutter{}
	a := newS3Archive(p, S3Options{Bucket: "b", BatchSize: 100, FlushInterval: 10 * time.Millisecond}, logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	a.Emit(ctx, crafted(7))

	require.Eventually(t, func() bool { return len(p.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, lines(p.snapshot()[0].body), 1)
}

func TestS3Archive_PutErrorIsSwallowed(t *testing.T) {
	p := &fakePutter{err: errors.New("bucket gone")}
	a := newS3Archive(p, S3Options{Bucket: "b", BatchSize: 1, FlushInterval: time.Hour}, logging.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	a.Emit(ctx, crafted(1))
	require.Eventually(t, func() bool { return len(p.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestS3Archive_DropsWhenQueueFull(t *testing.T) {
	a := newS3Archive(&fakePutter{}, S3Options{QueueSize: 1}, logging.Nop{})

	a.Emit(context.Background(), crafted(1))
	a.Emit(context.Background(), crafted(2))
	a.Emit(context.Background(), crafted(3))

	assert.Equal(t, 2, a.Dropped())
}

func TestNewS3Archive_Defaults(t *testing.T) {
	a := newS3Archive(&fakePutter{}, S3Options{}, logging.Nop{})
	assert.Equal(t, 100, a.batch)
	assert.Equal(t, 10*time.Second, a.interval)
	assert.Equal(t, 1024, cap(a.queue))
}

func TestNewS3Archive_ClientWiring(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ak", creds.AccessKeyID)
		assert.Equal(t, "sk", creds.SecretAccessKey)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	a, err := NewS3Archive(context.Background(), S3Options{
		AccessKey:    "ak",
		SecretKey:    "sk",
		Bucket:       "spells",
		Region:       "eu-central-1",
		BaseEndpoint: "http://127.0.0.1:9000",
	}, logging.Nop{})
	require.NoError(t, err)
	require.NotNil(t, a)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "spells", a.bucket)
}

func TestNewS3Archive_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Archive(context.Background(), S3Options{}, logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}
