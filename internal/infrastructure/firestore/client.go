package firestore

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreClient wraps the Firestore connection used by the optional
// Firestore score-cache backend.
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient creates a Firestore client for the given project,
// using default credentials on Cloud Run and a credentials file locally.
func NewFirestoreClient(ctx context.Context, projectID string) (*FirestoreClient, error) {
	var client *firestore.Client
	var err error

	isCloudRun := os.Getenv("K_SERVICE") != ""

	if isCloudRun {
		client, err = firestore.NewClient(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client with default auth: %w", err)
		}
		log.Printf("✅ Firestore client initialized for project: %s (Cloud Run default auth)", projectID)
	} else {
		credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

		if credentialsFile != "" {
			if _, fileErr := os.Stat(credentialsFile); fileErr == nil {
				client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
			} else {
				log.Printf("⚠️ Credentials file not found: %s, trying default authentication", credentialsFile)
				client, err = firestore.NewClient(ctx, projectID)
			}
		} else {
			client, err = firestore.NewClient(ctx, projectID)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		log.Printf("✅ Firestore client initialized for project: %s", projectID)
	}

	return &FirestoreClient{client: client}, nil
}

// Close closes the underlying client.
func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

// GetClient returns the underlying Firestore client.
func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
