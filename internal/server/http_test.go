package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mithrel/gridspike/internal/config"
	"github.com/mithrel/gridspike/internal/dataset"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/internal/wire"
)

const housesCSV = `price,area,bedrooms,bathrooms,stories,mainroad,guestroom,basement,hotwaterheating,airconditioning,parking,prefarea,furnishingstatus
100,50,2,1,1,yes,no,no,no,no,0,no,furnished
200,80,3,2,2,yes,no,yes,no,yes,1,no,unfurnished
300,120,3,2,2,no,yes,no,no,yes,2,yes,semi-furnished
150,60,4,1,1,yes,no,no,no,no,0,no,furnished
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, config.Load(ctx, v))
	v.Set("data_dir", dir)
	v.Set("log.level", "error")

	app, err := wire.BuildApp(ctx, v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ds, err := dataset.Parse([]byte(housesCSV), "houses")
	require.NoError(t, err)
	_, err = app.Store.Datasets.PutDataset(ctx, *ds)
	require.NoError(t, err)

	ts := httptest.NewServer(New(app).Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

type pageBody struct {
	Dataset string           `json:"dataset"`
	Rows    []map[string]any `json:"rows"`
	Total   int              `json:"total"`
	Label   string           `json:"label"`
	Sort    string           `json:"sort"`
	Filters []string         `json:"filters"`
	Query   string           `json:"query"`
}

func TestGridJSON(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/v1/grid/houses?bedrooms=3&sortBy=price.desc&page=1&search=", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeJSON, resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(headerRequestID))

	var body pageBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "houses", body.Dataset)
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Rows, 2)
	assert.Equal(t, 300.0, body.Rows[0]["price"])
	assert.Equal(t, 200.0, body.Rows[1]["price"])
	assert.Equal(t, "price.desc", body.Sort)
	assert.Equal(t, []string{"bedrooms"}, body.Filters)
	assert.Equal(t, "bedrooms=3&sortBy=price.desc", body.Query)
}

func TestGridGlobalFilterAndColumns(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/v1/grid/houses?globalFilter=2&columns=price,furnishingstatus&sortBy=price", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body pageBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "unfurnished", body.Rows[0]["furnishingstatus"])
	assert.Equal(t, "semi-furnished", body.Rows[1]["furnishingstatus"])
	_, hasArea := body.Rows[0]["area"]
	assert.False(t, hasArea)
}

func TestGridETag(t *testing.T) {
	ts := newTestServer(t)
	first := get(t, ts.URL+"/v1/grid/houses?priceMin=150", nil)
	require.Equal(t, http.StatusOK, first.StatusCode)
	etag := first.Header.Get("ETag")
	require.NotEmpty(t, etag)

	again := get(t, ts.URL+"/v1/grid/houses?priceMin=150&page=1", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, again.StatusCode)

	other := get(t, ts.URL+"/v1/grid/houses?priceMin=200", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusOK, other.StatusCode)
	assert.NotEqual(t, etag, other.Header.Get("ETag"))
}

func TestGridProtobuf(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/v1/grid/houses?pageSize=2", map[string]string{"Accept": "application/x-protobuf;q=1, application/json;q=0.5"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeProtobuf, resp.Header.Get("Content-Type"))

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var st structpb.Struct
	require.NoError(t, proto.Unmarshal(b, &st))
	m := st.AsMap()
	assert.Equal(t, float64(4), m["total"])
	assert.Len(t, m["rows"], 2)
	assert.Equal(t, "1-2 of 4", m["label"])
}

func TestGridNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/v1/grid/nope", map[string]string{headerRequestID: "req-1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "req-1", resp.Header.Get(headerRequestID))
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "not found")
}

func TestDatasetsHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts.URL+"/v1/datasets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var infos []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "houses", infos[0]["name"])

	resp = get(t, ts.URL+"/healthz", nil)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(b))

	get(t, ts.URL+"/v1/grid/houses", nil)
	resp = get(t, ts.URL+"/metrics", nil)
	b, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "gridspike_http_requests_total")
	assert.Contains(t, string(b), "gridspike_grid_filtered_rows")
}

func TestETagStable(t *testing.T) {
	a := ETag("abc", params.Snapshot{"page": "2", "sortBy": "price.asc"})
	b := ETag("abc", params.Snapshot{"sortBy": "price.asc", "page": "2"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, ETag("abd", params.Snapshot{"page": "2", "sortBy": "price.asc"}))
}
