package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreSource reads the food item collection from Cloud Firestore.
// FIRESTORE_EMULATOR_HOST is honored by the client library.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreSource connects to projectID. credentialsFile may be empty to
// use application default credentials.
func NewFirestoreSource(ctx context.Context, projectID, credentialsFile, collection string) (*FirestoreSource, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}
	if collection == "" {
		collection = DefaultCollection
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreSource{client: client, collection: collection}, nil
}

// Fetch scans the whole collection
func (s *FirestoreSource) Fetch(ctx context.Context) ([]Record, error) {
	snapshots, err := s.client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", s.collection, err)
	}

	records := make([]Record, 0, len(snapshots))
	for _, snap := range snapshots {
		records = append(records, Record{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return records, nil
}

// Close releases the client
func (s *FirestoreSource) Close() error {
	return s.client.Close()
}
