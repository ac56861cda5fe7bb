package memory

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/modernreader/orchestrator/internal/entity"
	"github.com/modernreader/orchestrator/pkg/embedding"
	"github.com/modernreader/orchestrator/pkg/reference"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenize builds the multiset representation stored alongside a RAGDoc and
// used again at query time for Jaccard scoring.
func Tokenize(text string) map[string]int {
	out := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		out[tok]++
	}
	return out
}

func jaccard(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var intersection, union int
	seen := make(map[string]bool, len(a)+len(b))
	for tok := range a {
		seen[tok] = true
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	for tok := range b {
		seen[tok] = true
	}
	union = len(seen)
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

type ScoredDoc struct {
	Doc   entity.RAGDoc `json:"doc"`
	Score float64       `json:"score"`
}

// RAGStore is the lightweight retrieval corpus behind MemoryStore's
// upsert/query/list/delete operations. Scoring is Jaccard over the distinct
// tokens of each side (token counts are ignored) by default; an
// EmbeddingProvider, when configured, blends in
// cosine similarity over a cached embedding per document.
type RAGStore struct {
	store    *Store
	embedder embedding.EmbeddingProvider
}

func NewRAGStore(s *Store, embedder embedding.EmbeddingProvider) *RAGStore {
	return &RAGStore{store: s, embedder: embedder}
}

func (r *RAGStore) Upsert(ctx context.Context, userID string, doc entity.RAGDoc) error {
	if doc.Tokens == nil || len(doc.Tokens) == 0 {
		doc.Tokens = Tokenize(doc.Text)
	}
	tokensJSON, err := json.Marshal(doc.Tokens)
	if err != nil {
		return err
	}
	meta := doc.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	var embBlob []byte
	if r.embedder != nil {
		if resp, err := r.embedder.Generate(doc.Text, "RETRIEVAL_DOCUMENT"); err == nil {
			embBlob, _ = json.Marshal(resp.Embedding.Values)
		}
	}

	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO rag_docs (doc_id, user_id, text, tokens, meta, embedding) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET text = excluded.text, tokens = excluded.tokens,
		 meta = excluded.meta, embedding = excluded.embedding`,
		doc.DocID, userID, doc.Text, string(tokensJSON), string(metaJSON), embBlob)
	return err
}

func (r *RAGStore) Delete(ctx context.Context, userID, docID string) error {
	_, err := r.store.db.ExecContext(ctx,
		`DELETE FROM rag_docs WHERE user_id = ? AND doc_id = ?`, userID, docID)
	return err
}

func (r *RAGStore) List(ctx context.Context, userID string) ([]entity.RAGDoc, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT doc_id, text, tokens, meta FROM rag_docs WHERE user_id = ? ORDER BY doc_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.RAGDoc
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (entity.RAGDoc, error) {
	var doc entity.RAGDoc
	var tokensJSON, metaJSON string
	if err := row.Scan(&doc.DocID, &doc.Text, &tokensJSON, &metaJSON); err != nil {
		return entity.RAGDoc{}, err
	}
	if err := json.Unmarshal([]byte(tokensJSON), &doc.Tokens); err != nil {
		return entity.RAGDoc{}, err
	}
	if err := json.Unmarshal([]byte(metaJSON), &doc.Meta); err != nil {
		return entity.RAGDoc{}, err
	}
	return doc, nil
}

// Query expands @doc:/[[...]] references out of the raw query, scores the
// remaining text against every document the user owns, and returns the
// top-k by score, ties broken by shorter then lexically smaller doc_id.
func (r *RAGStore) Query(ctx context.Context, userID, rawQuery string, topK int) ([]ScoredDoc, error) {
	if topK < 1 {
		topK = 1
	}
	if topK > 100 {
		topK = 100
	}

	parsed := reference.Parse(rawQuery)
	queryText := parsed.CleanQuery
	if queryText == "" {
		queryText = rawQuery
	}
	queryTokens := Tokenize(queryText)

	var queryEmbedding []float32
	if r.embedder != nil {
		if resp, err := r.embedder.Generate(queryText, "RETRIEVAL_QUERY"); err == nil {
			queryEmbedding = resp.Embedding.Values
		}
	}

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT doc_id, text, tokens, meta, embedding FROM rag_docs WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []ScoredDoc
	for rows.Next() {
		var docID, text, tokensJSON, metaJSON string
		var embBlob []byte
		if err := rows.Scan(&docID, &text, &tokensJSON, &metaJSON, &embBlob); err != nil {
			return nil, err
		}
		var tokens map[string]int
		var meta map[string]any
		if err := json.Unmarshal([]byte(tokensJSON), &tokens); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(metaJSON), &meta)

		score := jaccard(queryTokens, tokens)
		if queryEmbedding != nil && len(embBlob) > 0 {
			var docEmbedding []float32
			if err := json.Unmarshal(embBlob, &docEmbedding); err == nil {
				score = 0.5*score + 0.5*cosineSimilarity(queryEmbedding, docEmbedding)
			}
		}

		// referenced docs are always surfaced, even at zero lexical overlap
		for _, ref := range parsed.References {
			if ref.Type == reference.TypeDocID && ref.Value == docID {
				score = math.Max(score, 1.0)
			}
		}

		scored = append(scored, ScoredDoc{
			Doc:   entity.RAGDoc{DocID: docID, Text: text, Tokens: tokens, Meta: meta},
			Score: score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		li, lj := len(scored[i].Doc.DocID), len(scored[j].Doc.DocID)
		if li != lj {
			return li < lj
		}
		return scored[i].Doc.DocID < scored[j].Doc.DocID
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
