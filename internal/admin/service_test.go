package admin

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hitoshi/intranet/internal/model"
)

type mockFormFieldRepo struct {
	findByFormNameFn func(ctx context.Context, formName string) (*model.FormFields, error)
	upsertFn         func(ctx context.Context, formName string, schema []byte) (*model.FormFields, error)
	deleteByIDFn     func(ctx context.Context, id model.ID) (bool, error)
}

func (m *mockFormFieldRepo) FindByFormName(ctx context.Context, formName string) (*model.FormFields, error) {
	return m.findByFormNameFn(ctx, formName)
}
func (m *mockFormFieldRepo) Upsert(ctx context.Context, formName string, schema []byte) (*model.FormFields, error) {
	return m.upsertFn(ctx, formName, schema)
}
func (m *mockFormFieldRepo) DeleteByID(ctx context.Context, id model.ID) (bool, error) {
	return m.deleteByIDFn(ctx, id)
}

func errorCode(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func TestService_GetFormFields(t *testing.T) {
	svc := NewService(&mockFormFieldRepo{
		findByFormNameFn: func(_ context.Context, formName string) (*model.FormFields, error) {
			if formName == "document" {
				return &model.FormFields{ID: 1, FormName: formName, FieldSchema: json.RawMessage(`{}`)}, nil
			}
			return nil, nil
		},
	})

	ff, err := svc.GetFormFields(context.Background(), " document ")
	if err != nil || ff == nil || ff.ID != 1 {
		t.Fatalf("GetFormFields(document) = %+v, %v", ff, err)
	}

	ff, err = svc.GetFormFields(context.Background(), "blog")
	if err != nil || ff != nil {
		t.Errorf("GetFormFields(blog) = %+v, %v; want nil, nil", ff, err)
	}

	_, err = svc.GetFormFields(context.Background(), "")
	if code := errorCode(err); code != model.ErrCodeValidation {
		t.Errorf("code = %q, want %q", code, model.ErrCodeValidation)
	}
}

func TestService_UpsertFormFields(t *testing.T) {
	var stored []byte
	svc := NewService(&mockFormFieldRepo{
		upsertFn: func(_ context.Context, formName string, schema []byte) (*model.FormFields, error) {
			stored = schema
			return &model.FormFields{ID: 3, FormName: formName, FieldSchema: schema}, nil
		},
	})

	ff, err := svc.UpsertFormFields(context.Background(), model.UpsertFormFieldsInput{
		FormName:        "status_update",
		FieldSchemaJSON: json.RawMessage(` {"postIn":{"label":"Post in"}} `),
	})
	if err != nil {
		t.Fatalf("UpsertFormFields returned error: %v", err)
	}
	if ff.FormName != "status_update" || string(stored) != `{"postIn":{"label":"Post in"}}` {
		t.Errorf("unexpected result: %+v, stored %s", ff, stored)
	}
}

func TestService_UpsertFormFields_Validation(t *testing.T) {
	svc := NewService(&mockFormFieldRepo{})

	tests := []struct {
		name  string
		input model.UpsertFormFieldsInput
	}{
		{"missing formName", model.UpsertFormFieldsInput{FieldSchemaJSON: json.RawMessage(`{}`)}},
		{"missing schema", model.UpsertFormFieldsInput{FormName: "doc"}},
		{"null schema", model.UpsertFormFieldsInput{FormName: "doc", FieldSchemaJSON: json.RawMessage(`null`)}},
		{"array schema", model.UpsertFormFieldsInput{FormName: "doc", FieldSchemaJSON: json.RawMessage(`[1,2]`)}},
		{"string schema", model.UpsertFormFieldsInput{FormName: "doc", FieldSchemaJSON: json.RawMessage(`"x"`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertFormFields(context.Background(), tt.input)
			if code := errorCode(err); code != model.ErrCodeValidation {
				t.Errorf("code = %q, want %q", code, model.ErrCodeValidation)
			}
		})
	}
}

func TestService_DeleteFormFields(t *testing.T) {
	svc := NewService(&mockFormFieldRepo{
		deleteByIDFn: func(_ context.Context, id model.ID) (bool, error) { return id == 1, nil },
	})

	if err := svc.DeleteFormFields(context.Background(), 1); err != nil {
		t.Errorf("DeleteFormFields(1) returned error: %v", err)
	}
	err := svc.DeleteFormFields(context.Background(), 2)
	if code := errorCode(err); code != model.ErrCodeFormFieldsNotFound {
		t.Errorf("code = %q, want %q", code, model.ErrCodeFormFieldsNotFound)
	}
}
