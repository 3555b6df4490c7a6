package export

import (
	"bytes"
	"context"
	"path"
	"strconv"

	"github.com/google/uuid"

	"github.com/warp/employee-directory/sink"
)

// KeyPrefix is where StoreSink files documents.
const KeyPrefix = "exports/"

// StoreSink delivers documents into a blob store under
// exports/<uuid>/<filename>.
type StoreSink struct {
	store sink.Store
	newID func() string
}

func NewStoreSink(store sink.Store) *StoreSink {
	return &StoreSink{store: store, newID: func() string { return uuid.NewString() }}
}

func (s *StoreSink) Deliver(ctx context.Context, doc Document) (Receipt, error) {
	id := s.newID()
	key := path.Join(KeyPrefix, id, doc.Filename)
	info, err := s.store.Put(ctx, key, bytes.NewReader(doc.Body), sink.PutOptions{
		ContentType: doc.ContentType,
		Metadata: map[string]string{
			"rows":   strconv.Itoa(doc.Rows),
			"format": string(doc.Format),
		},
	})
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{
		ID:          id,
		Key:         info.Key,
		Driver:      string(s.store.Driver()),
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		SizeBytes:   info.Size,
		Rows:        doc.Rows,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// Stored lists the documents previously delivered to store.
func Stored(ctx context.Context, store sink.Store) ([]sink.Info, error) {
	return store.List(ctx, KeyPrefix)
}
