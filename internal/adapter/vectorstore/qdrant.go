package vectorstore

import (
	"context"
	"fmt"

	"quiz-builder/internal/domain"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantIndex implements domain.VectorIndex against a Qdrant instance over
// gRPC. Segments of all corpora share one collection; each point carries its
// corpus ID in the payload and queries filter on it.
type QdrantIndex struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	collection string
}

// NewQdrantIndex connects to Qdrant and returns an index bound to a collection.
func NewQdrantIndex(ctx context.Context, host string, port int, collection string) (*QdrantIndex, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &QdrantIndex{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		collection: collection,
	}, nil
}

// Upsert stores embedded segments as points keyed by a UUID derived from the
// segment ID, so re-upserting a segment overwrites its previous point.
func (q *QdrantIndex) Upsert(ctx context.Context, corpusID string, segments []domain.EmbeddedSegment) error {
	points := make([]*pb.PointStruct, len(segments))
	for i, seg := range segments {
		payload := map[string]*pb.Value{
			"segment_id": {Kind: &pb.Value_StringValue{StringValue: seg.ID}},
			"corpus_id":  {Kind: &pb.Value_StringValue{StringValue: corpusID}},
			"text":       {Kind: &pb.Value_StringValue{StringValue: seg.Text}},
			"source_ref": {Kind: &pb.Value_StringValue{StringValue: seg.SourceRef}},
		}
		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: pointUUID(seg.ID)}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: seg.Vector}}},
			Payload: payload,
		}
	}

	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

// Search returns the corpus's topK nearest segments.
func (q *QdrantIndex) Search(ctx context.Context, corpusID string, vector []float32, topK int) ([]domain.SegmentMatch, error) {
	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		Filter:         corpusFilter(corpusID),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		WithVectors:    &pb.WithVectorsSelector{SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}
	if len(resp.Result) == 0 {
		return nil, domain.NewEmptyCorpusError()
	}

	matches := make([]domain.SegmentMatch, len(resp.Result))
	for i, pt := range resp.Result {
		matches[i] = domain.SegmentMatch{
			Segment: segmentFromPayload(pt.Payload, pt.Vectors),
			Score:   float64(pt.Score),
		}
	}
	return matches, nil
}

// Corpus scrolls through every point of a corpus.
func (q *QdrantIndex) Corpus(ctx context.Context, corpusID string) ([]domain.EmbeddedSegment, error) {
	var (
		segments []domain.EmbeddedSegment
		offset   *pb.PointId
	)
	limit := uint32(256)

	for {
		resp, err := q.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: q.collection,
			Filter:         corpusFilter(corpusID),
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
			WithVectors:    &pb.WithVectorsSelector{SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true}},
		})
		if err != nil {
			return nil, fmt.Errorf("qdrant scroll: %w", err)
		}
		for _, pt := range resp.Result {
			segments = append(segments, segmentFromRetrieved(pt))
		}
		if resp.NextPageOffset == nil {
			break
		}
		offset = resp.NextPageOffset
	}

	if len(segments) == 0 {
		return nil, domain.NewEmptyCorpusError()
	}
	return segments, nil
}

func (q *QdrantIndex) Close() error {
	return q.conn.Close()
}

func corpusFilter(corpusID string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: "corpus_id",
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{Keyword: corpusID},
						},
					},
				},
			},
		},
	}
}

// pointUUID derives a stable UUID from a segment ID; Qdrant point IDs must be
// UUIDs or integers.
func pointUUID(segmentID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(segmentID)).String()
}

func segmentFromPayload(payload map[string]*pb.Value, vectors *pb.VectorsOutput) domain.EmbeddedSegment {
	seg := domain.EmbeddedSegment{}
	if v, ok := payload["segment_id"]; ok {
		seg.ID = v.GetStringValue()
	}
	if v, ok := payload["text"]; ok {
		seg.Text = v.GetStringValue()
	}
	if v, ok := payload["source_ref"]; ok {
		seg.SourceRef = v.GetStringValue()
	}
	if vec := vectors.GetVector(); vec != nil {
		seg.Vector = vec.Data
	}
	return seg
}

func segmentFromRetrieved(pt *pb.RetrievedPoint) domain.EmbeddedSegment {
	return segmentFromPayload(pt.Payload, pt.Vectors)
}

var _ domain.VectorIndex = (*QdrantIndex)(nil)
