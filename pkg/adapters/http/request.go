package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/aretw0/spotcheck/pkg/domain"
)

// maxBodySize bounds request bodies; questionnaire texts are limited separately.
const maxBodySize = 64 << 10

var errBadRequest = errors.New("bad request")

// payload is the union of both request shapes. Pointers tell absent from zero.
type payload struct {
	X         *int `json:"x"`
	Y         *int `json:"y"`
	StepIndex *int `json:"stepIndex"`

	Difficulty      *int    `json:"difficulty"`
	UnclearStep     *string `json:"unclearStep"`
	ExpectedMissing *string `json:"expectedMissing"`
}

func (p payload) hasClick() bool {
	return p.X != nil || p.Y != nil || p.StepIndex != nil
}

func (p payload) hasQuestionnaire() bool {
	return p.Difficulty != nil || p.UnclearStep != nil || p.ExpectedMissing != nil
}

// decodeInteraction reads a JSON or form body. An empty body is a render.
func decodeInteraction(w http.ResponseWriter, r *http.Request) (domain.Interaction, error) {
	if r.Method == http.MethodGet {
		return domain.Interaction{}, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var (
		p   payload
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		p, err = decodeJSON(r.Body)
	} else {
		p, err = decodeForm(r)
	}
	if err != nil {
		return domain.Interaction{}, err
	}
	return p.interaction()
}

func decodeJSON(body io.Reader) (payload, error) {
	var p payload
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return payload{}, nil
		}
		return payload{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return p, nil
}

func decodeForm(r *http.Request) (payload, error) {
	if err := r.ParseForm(); err != nil {
		return payload{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	var p payload
	ints := []struct {
		key string
		dst **int
	}{
		{"x", &p.X},
		{"y", &p.Y},
		{"stepIndex", &p.StepIndex},
		{"difficulty", &p.Difficulty},
	}
	for _, f := range ints {
		if !r.PostForm.Has(f.key) {
			continue
		}
		n, err := strconv.Atoi(r.PostForm.Get(f.key))
		if err != nil {
			return payload{}, fmt.Errorf("%w: %s must be an integer", errBadRequest, f.key)
		}
		*f.dst = &n
	}
	for key, dst := range map[string]**string{
		"unclearStep":     &p.UnclearStep,
		"expectedMissing": &p.ExpectedMissing,
	} {
		if r.PostForm.Has(key) {
			v := r.PostForm.Get(key)
			*dst = &v
		}
	}
	return p, nil
}

func (p payload) interaction() (domain.Interaction, error) {
	switch {
	case p.hasClick() && p.hasQuestionnaire():
		return domain.Interaction{}, fmt.Errorf("%w: click and questionnaire in one request", errBadRequest)
	case p.hasClick():
		if p.X == nil || p.Y == nil || p.StepIndex == nil {
			return domain.Interaction{}, fmt.Errorf("%w: a click needs x, y and stepIndex", errBadRequest)
		}
		return domain.Interaction{Click: &domain.Click{X: *p.X, Y: *p.Y, StepIndex: *p.StepIndex}}, nil
	case p.hasQuestionnaire():
		// Missing answers fail questionnaire validation downstream.
		q := domain.Questionnaire{}
		if p.Difficulty != nil {
			q.Difficulty = *p.Difficulty
		}
		if p.UnclearStep != nil {
			q.UnclearStep = *p.UnclearStep
		}
		if p.ExpectedMissing != nil {
			q.ExpectedMissing = *p.ExpectedMissing
		}
		return domain.Interaction{Questionnaire: &q}, nil
	default:
		return domain.Interaction{}, nil
	}
}
