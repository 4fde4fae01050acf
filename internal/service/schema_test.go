package service

import (
	"errors"
	"testing"

	"taskflow/internal/domain"
)

func TestInputSchemaDecode(t *testing.T) {
	schema := MustInputSchema()

	in, err := schema.Decode([]byte(`{"title":"Buy milk","priority":"low","description":null,"dueDate":"2024-06-01"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Title != "Buy milk" || in.Priority == nil || *in.Priority != domain.PriorityLow || in.Description != nil || in.DueDate == nil {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestInputSchemaErrors(t *testing.T) {
	schema := MustInputSchema()

	cases := []struct {
		body string
		want error
	}{
		{``, domain.ErrInvalidTitle},
		{`{}`, domain.ErrInvalidTitle},
		{`{"title":""}`, domain.ErrInvalidTitle},
		{`{"title":"   "}`, domain.ErrInvalidTitle},
		{`{"title":42}`, domain.ErrInvalidTitle},
		{`{"title":"","priority":"urgent"}`, domain.ErrInvalidTitle},
		{`{"title":"ok","priority":"urgent"}`, domain.ErrInvalidPriority},
		{`{"title":"ok","dueDate":7}`, domain.ErrInvalidDueDate},
	}
	for _, tc := range cases {
		_, err := schema.Decode([]byte(tc.body))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.body, tc.want, err)
		}
	}

	for _, body := range []string{`{"title":`, `[1]`, `"x"`} {
		if _, err := schema.Decode([]byte(body)); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected an input error, got %v", body, err)
		}
	}
}
