package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gig-manager/backend/internal/importer"
	"github.com/gig-manager/backend/internal/storage"
	"github.com/gig-manager/backend/internal/storage/models"
)

type fakeOrganizations struct {
	orgs []models.Organization
	err  error
}

func (f *fakeOrganizations) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, o := range f.orgs {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrganizations) Search(ctx context.Context, filter models.OrganizationFilter) ([]models.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Organization
	for _, o := range f.orgs {
		if filter.Type != "" && o.Type != filter.Type {
			continue
		}
		if !strings.Contains(strings.ToLower(o.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrganizations) FindByName(ctx context.Context, name string, typ models.OrganizationType) (*models.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := models.OrganizationNameKey(name)
	for _, o := range f.orgs {
		if o.Type == typ && models.OrganizationNameKey(o.Name) == key {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrganizations) Create(ctx context.Context, org *models.Organization) error {
	if f.err != nil {
		return f.err
	}
	org.ID = fmt.Sprintf("org-%d", len(f.orgs)+1)
	f.orgs = append(f.orgs, *org)
	return nil
}

type fakeSettings struct {
	values map[string]string
	err    error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: map[string]string{}}
}

func (f *fakeSettings) Get(ctx context.Context, name string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[name]
	return v, ok, nil
}

func (f *fakeSettings) Set(ctx context.Context, name, value string) error {
	if f.err != nil {
		return f.err
	}
	f.values[name] = value
	return nil
}

func (f *fakeSettings) All(ctx context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

type fakeGigs struct {
	created []models.Gig
	fail    map[string]bool
}

func (f *fakeGigs) Create(ctx context.Context, gig *models.Gig) error {
	if f.fail[gig.Title] {
		return errors.New("duplicate gig")
	}
	gig.ID = fmt.Sprintf("gig-%d", len(f.created)+1)
	f.created = append(f.created, *gig)
	return nil
}

func (f *fakeGigs) List(ctx context.Context, _ storage.GigFilter) ([]models.Gig, error) {
	return f.created, nil
}

type fakeAssets struct {
	created []models.Asset
}

func (f *fakeAssets) Create(ctx context.Context, asset *models.Asset) error {
	asset.ID = fmt.Sprintf("asset-%d", len(f.created)+1)
	f.created = append(f.created, *asset)
	return nil
}

func (f *fakeAssets) List(ctx context.Context, organizationID string) ([]models.Asset, error) {
	var out []models.Asset
	for _, a := range f.created {
		if organizationID == "" || a.OrganizationID == organizationID {
			out = append(out, a)
		}
	}
	return out, nil
}

var _ importer.GigStore = (*fakeGigs)(nil)

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func assetPartition(t *testing.T) *importer.Partition {
	t.Helper()
	records, err := importer.ParseCSV(strings.NewReader("category,manufacturer_model,acquisition_date\nAudio,Shure SM58,2024-03-15\n"))
	require.NoError(t, err)
	v, err := importer.NewValidator(importer.ImportTypeAssets, importer.ValidatorOptions{})
	require.NoError(t, err)
	return importer.BuildPartition(records, v)
}

func ownerOrg() models.Organization {
	return models.Organization{ID: "owner-1", Name: "Loud Sound Co", Type: models.OrganizationTypeSound}
}
