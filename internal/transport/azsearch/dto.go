package azsearch

import (
	"encoding/json"

	"github.com/kailas-cloud/topiclens/internal/domain/semantic"
)

// searchResponse mirrors the loosely-typed search payload. Every field is
// optional on the wire; absence decodes to the zero value, never an error.
type searchResponse struct {
	Answers []wireAnswer   `json:"@search.answers"`
	Value   []wireDocument `json:"value"`
}

type wireAnswer struct {
	Text       string  `json:"text"`
	Highlights string  `json:"highlights"`
	Score      float64 `json:"score"`
}

type wireCaption struct {
	Text       string `json:"text"`
	Highlights string `json:"highlights"`
}

// wireDocument separates the annotated ranking fields from the selected
// domain fields. The domain fields vary per index, so everything that is a
// plain JSON string lands in Fields; other value types are dropped.
type wireDocument struct {
	Score       float64
	RerankScore float64
	Captions    []wireCaption
	Fields      map[string]string
}

func (d *wireDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["@search.score"]; ok {
		_ = json.Unmarshal(v, &d.Score)
	}
	if v, ok := raw["@search.rerankerScore"]; ok {
		_ = json.Unmarshal(v, &d.RerankScore)
	}
	if v, ok := raw["@search.captions"]; ok {
		_ = json.Unmarshal(v, &d.Captions)
	}

	d.Fields = make(map[string]string)
	for key, v := range raw {
		if len(key) > 0 && key[0] == '@' {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			d.Fields[key] = s
		}
	}
	return nil
}

func (r searchResponse) toDomain() semantic.Result {
	result := semantic.Result{}

	for _, a := range r.Answers {
		result.Answers = append(result.Answers, semantic.Answer{Text: a.Text, Score: a.Score})
	}

	for _, d := range r.Value {
		doc := semantic.Document{
			Score:       d.Score,
			RerankScore: d.RerankScore,
			Fields:      d.Fields,
		}
		for _, c := range d.Captions {
			doc.Captions = append(doc.Captions, semantic.Caption{
				Text:       c.Text,
				Highlights: c.Highlights,
			})
		}
		result.Documents = append(result.Documents, doc)
	}
	return result
}
