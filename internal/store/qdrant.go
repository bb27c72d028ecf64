package store

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/qdrant/go-client/qdrant"
)

// scrollPageSize bounds how many candidates a text-only query pulls back for
// client-side ranking. One repository's chunk count fits comfortably.
const scrollPageSize = 4096

// QdrantStore is the full vector-capable backend, bound to one collection.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	vectorSize int
}

// NewQdrantStore connects to Qdrant and ensures the collection exists.
func NewQdrantStore(ctx context.Context, host, collection string, vectorSize int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	s := &QdrantStore{
		client:     client,
		collection: SanitizeCollection(collection),
		vectorSize: vectorSize,
	}

	if err := s.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the Qdrant connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return nil
	}

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// Add upserts records. Records without an embedding (degraded by an
// embedding failure upstream) get a zero vector, which cosine distance
// ranks as the worst possible match.
func (s *QdrantStore) Add(ctx context.Context, records []Record) error {
	points := make([]*qdrant.PointStruct, len(records))

	for i, r := range records {
		vector := r.Embedding
		if len(vector) != s.vectorSize {
			vector = make([]float32, s.vectorSize)
		}

		payload := map[string]interface{}{
			"id":            r.ID,
			"document":      r.Document,
			"file_path":     r.Meta.FilePath,
			"language":      r.Meta.Language,
			"function_name": r.Meta.FunctionName,
			"start_line":    r.Meta.StartLine,
			"end_line":      r.Meta.EndLine,
			"source_url":    r.Meta.SourceURL,
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(r.ID)),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})

	return err
}

// Count returns the number of live records in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return 0, err
	}
	if info.PointsCount == nil {
		return 0, nil
	}
	return int(*info.PointsCount), nil
}

// Query performs vector similarity search when an embedding is supplied,
// otherwise falls back to scrolling the filtered set and ranking by token
// overlap, matching the JSON backend's text semantics.
func (s *QdrantStore) Query(ctx context.Context, q Query) ([]Result, error) {
	limit := clampLimit(q.Limit)

	var filter *qdrant.Filter
	if q.Where != nil {
		filter = buildFilter(q.Where)
	}

	if len(q.Embedding) > 0 {
		points, err := s.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: s.collection,
			Query:          qdrant.NewQuery(q.Embedding...),
			Limit:          qdrant.PtrOf(uint64(limit)),
			Filter:         filter,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, err
		}

		results := make([]Result, len(points))
		for i, p := range points {
			results[i] = Result{
				Record: payloadToRecord(p.Payload),
				Score:  float64(p.Score),
			}
		}
		return results, nil
	}

	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(scrollPageSize)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(points))
	for i, p := range points {
		r := payloadToRecord(p.Payload)
		results[i] = Result{Record: r, Score: tokenOverlapScore(q.Text, r.Document)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.ID < results[j].Record.ID
	})

	if limit > len(results) {
		limit = len(results)
	}
	return results[:limit], nil
}

// DeleteWhere removes every record whose metadata key equals value.
func (s *QdrantStore) DeleteWhere(ctx context.Context, key, value string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(buildFilter(map[string]string{key: value})),
	})
	return err
}

func buildFilter(where map[string]string) *qdrant.Filter {
	var must []*qdrant.Condition

	for key, value := range where {
		must = append(must, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: key,
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Keyword{Keyword: value},
					},
				},
			},
		})
	}

	return &qdrant.Filter{Must: must}
}

// pointID maps a record ID onto the UUID form Qdrant requires for point
// identifiers. Deterministic, so upserts stay idempotent.
func pointID(id string) string {
	h := sha256.Sum256([]byte(id))
	return fmt.Sprintf("%x-%x-%x-%x-%x", h[0:4], h[4:6], h[6:8], h[8:10], h[10:16])
}

func payloadToRecord(payload map[string]*qdrant.Value) Record {
	getString := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	getInt := func(key string) int {
		if v, ok := payload[key]; ok {
			return int(v.GetIntegerValue())
		}
		return 0
	}

	return Record{
		ID:       getString("id"),
		Document: getString("document"),
		Meta: Meta{
			FilePath:     getString("file_path"),
			Language:     getString("language"),
			FunctionName: getString("function_name"),
			StartLine:    getInt("start_line"),
			EndLine:      getInt("end_line"),
			SourceURL:    getString("source_url"),
		},
	}
}
