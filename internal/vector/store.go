// Package vector indexes past replies in Qdrant so similar incoming messages
// can be matched against them.
package vector

import (
	"context"
	"fmt"
	"strings"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/VarunSharma3520/Reply/internal/logger"
)

const payloadType = "reply"

// Embedder defines the interface for text embedding models
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Entry is a reply stored in the index.
type Entry struct {
	ID     string
	Input  string
	Style  string
	Reply  string
	Stored time.Time
}

// Match is an indexed reply with its similarity score.
type Match struct {
	Entry
	Score float32
}

// Store handles storing and retrieving reply vectors from Qdrant
type Store struct {
	collectionsClient pb.CollectionsClient
	pointsClient      pb.PointsClient
	collection        string
	embedder          Embedder
	logger            *logger.Logger
}

// NewStore creates a new Store on an existing gRPC connection
func NewStore(conn grpc.ClientConnInterface, collection string, embedder Embedder, log *logger.Logger) *Store {
	return newStore(pb.NewCollectionsClient(conn), pb.NewPointsClient(conn), collection, embedder, log)
}

func newStore(cc pb.CollectionsClient, pc pb.PointsClient, collection string, embedder Embedder, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		collectionsClient: cc,
		pointsClient:      pc,
		collection:        collection,
		embedder:          embedder,
		logger:            log,
	}
}

// Dial opens a gRPC connection to Qdrant.
func Dial(address string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	return conn, nil
}

// EnsureCollection creates the collection if it doesn't exist
func (s *Store) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := s.collectionsClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: s.collection,
	})
	if err == nil {
		s.logger.Debug("collection exists", map[string]interface{}{"collection": s.collection})
		return nil
	}
	if !isNotFoundError(err) {
		return fmt.Errorf("failed to look up collection %q: %w", s.collection, err)
	}

	s.logger.Info("creating collection", map[string]interface{}{
		"collection":  s.collection,
		"vector_size": vectorSize,
	})

	_, err = s.collectionsClient.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		s.logger.Error("failed to create collection", err, map[string]interface{}{"collection": s.collection})
		return fmt.Errorf("failed to create collection %q: %w", s.collection, err)
	}
	return nil
}

// isNotFoundError checks if the error is a "not found" error from Qdrant
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if status.Code(err) == codes.NotFound {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// Index embeds the incoming message of e and upserts it with the reply as payload.
// The collection is created on first use, sized to the embedding.
func (s *Store) Index(ctx context.Context, e Entry) error {
	vec, err := s.embedder.Embed(ctx, e.Input)
	if err != nil {
		return fmt.Errorf("failed to embed message: %w", err)
	}

	if err := s.EnsureCollection(ctx, uint64(len(vec))); err != nil {
		return err
	}

	point := &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{Uuid: e.ID},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{Data: vec},
			},
		},
		Payload: map[string]*pb.Value{
			"type":      stringValue(payloadType),
			"input":     stringValue(e.Input),
			"style":     stringValue(e.Style),
			"reply":     stringValue(e.Reply),
			"stored_at": stringValue(e.Stored.UTC().Format(time.RFC3339)),
		},
	}

	if _, err := s.pointsClient.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*pb.PointStruct{point},
	}); err != nil {
		s.logger.Error("failed to store vector in Qdrant", err, map[string]interface{}{
			"collection": s.collection,
			"point_id":   e.ID,
		})
		return fmt.Errorf("failed to store vector in Qdrant: %w", err)
	}

	s.logger.Info("indexed reply", map[string]interface{}{"point_id": e.ID, "collection": s.collection})
	return nil
}

// SearchSimilar returns up to limit stored replies whose message is closest to text.
func (s *Store) SearchSimilar(ctx context.Context, text string, limit uint64) ([]Match, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed message: %w", err)
	}

	res, err := s.pointsClient.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vec,
		Limit:          limit,
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		Filter: &pb.Filter{
			Must: []*pb.Condition{
				{
					ConditionOneOf: &pb.Condition_Field{
						Field: &pb.FieldCondition{
							Key: "type",
							Match: &pb.Match{
								MatchValue: &pb.Match_Keyword{Keyword: payloadType},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := make([]Match, 0, len(res.GetResult()))
	for _, p := range res.GetResult() {
		payload := p.GetPayload()
		stored, _ := time.Parse(time.RFC3339, payload["stored_at"].GetStringValue())
		matches = append(matches, Match{
			Entry: Entry{
				ID:     p.GetId().GetUuid(),
				Input:  payload["input"].GetStringValue(),
				Style:  payload["style"].GetStringValue(),
				Reply:  payload["reply"].GetStringValue(),
				Stored: stored,
			},
			Score: p.GetScore(),
		})
	}
	return matches, nil
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}
