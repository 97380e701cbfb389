package mongodb

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"job-hunter-service/internal/entity"
	"job-hunter-service/internal/repository"
)

// jobDocument pairs a job ad with the collection's internal ObjectID, which
// also provides insertion order for listing.
type jobDocument struct {
	ObjectID     primitive.ObjectID `bson:"_id,omitempty"`
	entity.JobAd `bson:",inline"`
}

type JobRepository struct {
	coll *mongo.Collection
}

func NewJobRepository(coll *mongo.Collection) *JobRepository {
	return &JobRepository{coll: coll}
}

// EnsureIndexes creates the lookup indexes. With uniqueURL the collection
// itself rejects a second document with the same url, closing the window
// between the existence check and the insert.
func (r *JobRepository) EnsureIndexes(ctx context.Context, uniqueURL bool) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("job_public_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetName("job_url").SetUnique(uniqueURL),
		},
	})
	return errors.Wrap(err, "create indexes")
}

func (r *JobRepository) FindByURL(ctx context.Context, url string) (*entity.JobAd, error) {
	return r.findOne(ctx, bson.D{{Key: "url", Value: url}})
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.JobAd, error) {
	return r.findOne(ctx, bson.D{{Key: "id", Value: id}})
}

func (r *JobRepository) findOne(ctx context.Context, filter bson.D) (*entity.JobAd, error) {
	var doc jobDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "find job")
	}
	return &doc.JobAd, nil
}

func (r *JobRepository) Insert(ctx context.Context, job entity.JobAd) error {
	if _, err := r.coll.InsertOne(ctx, jobDocument{JobAd: job}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return errors.Wrap(err, "insert job")
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, skip, limit int) ([]entity.JobAd, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}

	var docs []jobDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode jobs")
	}

	jobs := make([]entity.JobAd, 0, len(docs))
	for _, d := range docs {
		jobs = append(jobs, d.JobAd)
	}
	return jobs, nil
}

// EstimatedCount reads the collection metadata count, which is fast but may
// drift from the exact number of documents.
func (r *JobRepository) EstimatedCount(ctx context.Context) (int64, error) {
	n, err := r.coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "count jobs")
	}
	return n, nil
}

func (r *JobRepository) Update(ctx context.Context, id string, patch entity.JobAdPatch) (*entity.JobAd, error) {
	fields := patch.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set := bson.D{}
	for _, k := range keys {
		set = append(set, bson.E{Key: k, Value: fields[k]})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc jobDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, repository.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, repository.ErrDuplicate
		}
		return nil, errors.Wrap(err, "update job")
	}
	return &doc.JobAd, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "id", Value: id}}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		return errors.Wrap(err, "delete job")
	}
	return nil
}

// MarkProcessed records the first processing time. Later calls keep the original value.
func (r *JobRepository) MarkProcessed(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "id", Value: id}, {Key: "processedAt", Value: bson.D{{Key: "$exists", Value: false}}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "processedAt", Value: at}}}},
	)
	if err != nil {
		return errors.Wrap(err, "mark job processed")
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return errors.Wrap(err, "count job")
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
