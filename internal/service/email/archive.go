package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Record is the durable trace of a successful dispatch.
type Record struct {
	Message
	SentAt time.Time `json:"sent_at"`
}

type Archive interface {
	Store(ctx context.Context, rec Record) error
}

type minioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinIOArchive(client *minio.Client, bucket string) Archive {
	return &minioArchive{client: client, bucket: bucket}
}

func (a *minioArchive) Store(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode dispatch record: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s.json", rec.SentAt.UTC().Format("2006/01/02"), uuid.New().String())
	_, err = a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload dispatch record: %w", err)
	}
	return nil
}

type archivingTransport struct {
	next    Transport
	archive Archive
	now     func() time.Time
}

// NewArchivingTransport records every message next delivered successfully.
// Archive failures are logged and never fail the dispatch.
func NewArchivingTransport(next Transport, archive Archive) Transport {
	return &archivingTransport{next: next, archive: archive, now: time.Now}
}

func (t *archivingTransport) Send(ctx context.Context, msg Message) error {
	if err := t.next.Send(ctx, msg); err != nil {
		return err
	}

	rec := Record{Message: msg, SentAt: t.now().UTC()}
	if err := t.archive.Store(ctx, rec); err != nil {
		log.Printf("Failed to archive email to %s (%s): %v", msg.To, msg.Template, err)
	}
	return nil
}
