package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"google.golang.org/api/iterator"
)

// DefaultCollection is the Firestore collection holding template descriptors.
const DefaultCollection = "templateDescriptors"

// FirestoreResolver resolves descriptors from a Firestore collection.
type FirestoreResolver struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreResolver creates a resolver over collection. An empty
// collection means DefaultCollection.
func NewFirestoreResolver(client *firestore.Client, collection string) *FirestoreResolver {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreResolver{client: client, collection: collection}
}

// NewFirestoreClient creates a Firestore client for projectID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// ResolveDefault implements Resolver. When several defaults exist the most
// recently updated one wins.
func (r *FirestoreResolver) ResolveDefault(ctx context.Context, companyID string) (*models.TemplateDescriptor, error) {
	iter := r.client.Collection(r.collection).
		Where("company_id", "==", companyID).
		Where("is_default", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var found *models.TemplateDescriptor
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query template descriptors: %w", err)
		}
		var d models.TemplateDescriptor
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode template descriptor %s: %w", snap.Ref.ID, err)
		}
		if d.ID == "" {
			d.ID = snap.Ref.ID
		}
		if found == nil || d.UpdatedAt.After(found.UpdatedAt) {
			found = &d
		}
	}
	return found, nil
}
