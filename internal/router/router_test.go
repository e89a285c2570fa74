package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-vaccinations/internal/platform/metrics"
	"pet-vaccinations/internal/platform/taskqueue"
	"pet-vaccinations/internal/router"
)

func TestHTTP_EndToEnd_PetWithVaccinations(t *testing.T) {
	broker := taskqueue.NewMemoryBroker()
	ts := httptest.NewServer(router.NewRouter(router.Options{Broker: broker}))
	defer ts.Close()

	today := time.Now().UTC()
	past := today.AddDate(0, 0, -10).Format("2006-01-02")
	soon := today.AddDate(0, 0, 5).Format("2006-01-02")
	yearAgo := today.AddDate(-1, 0, 0).Format("2006-01-02")

	// 1) Crear mascota
	petID := createPet(t, ts.URL, map[string]any{"name": "Rex", "breed": "Labrador", "age": 3})

	// 2) Registrar una vacuna vencida (aunque venga expired=false) y otra por vencer
	expiredID := createRecord(t, ts.URL, petID, map[string]any{
		"name": "Rabies", "vaccination_date": yearAgo, "expiry_date": past, "expired": false,
	})
	soonID := createRecord(t, ts.URL, petID, map[string]any{
		"name": "Parvo", "vaccination_date": yearAgo, "expiry_date": soon,
	})

	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/pets/"+petID+"/vaccination_records/"+expiredID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get record, got %d body=%s", st, string(body))
		}
		var resp struct {
			VaccinationRecord struct {
				Expired bool `json:"expired"`
			} `json:"vaccination_record"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.VaccinationRecord.Expired {
			t.Fatalf("past expiry must be stored as expired, body=%s", string(body))
		}
	}

	// 3) La mascota refleja el estado de vacunación
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/pets/"+petID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d body=%s", st, string(body))
		}
		var resp struct {
			Pet struct {
				AgeCategory            string `json:"age_category"`
				HasExpiredVaccinations bool   `json:"has_expired_vaccinations"`
				VaccinationSummary     struct {
					Total        int `json:"total"`
					Expired      int `json:"expired"`
					ExpiringSoon int `json:"expiring_soon"`
				} `json:"vaccination_summary"`
				UpcomingExpirations []struct {
					ID string `json:"id"`
				} `json:"upcoming_expirations"`
			} `json:"pet"`
		}
		_ = json.Unmarshal(body, &resp)
		p := resp.Pet
		if p.AgeCategory != "adult" || !p.HasExpiredVaccinations {
			t.Fatalf("unexpected pet: %s", string(body))
		}
		if p.VaccinationSummary.Total != 2 || p.VaccinationSummary.Expired != 1 || p.VaccinationSummary.ExpiringSoon != 1 {
			t.Fatalf("unexpected summary: %s", string(body))
		}
		if len(p.UpcomingExpirations) != 1 || p.UpcomingExpirations[0].ID != soonID {
			t.Fatalf("unexpected upcoming: %s", string(body))
		}
	}

	// 4) Filtros de la lista de registros
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/pets/"+petID+"/vaccination_records?status=active&days_until_expiry=30", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list records, got %d body=%s", st, string(body))
		}
		var resp struct {
			VaccinationRecords []struct {
				ID string `json:"id"`
			} `json:"vaccination_records"`
			Meta struct {
				TotalCount int `json:"total_count"`
			} `json:"meta"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Meta.TotalCount != 1 || len(resp.VaccinationRecords) != 1 || resp.VaccinationRecords[0].ID != soonID {
			t.Fatalf("unexpected filtered list: %s", string(body))
		}
	}

	// 5) mark_as_expired: la primera vez 200, la segunda 400 y se agenda una notificación
	{
		path := "/api/v1/pets/" + petID + "/vaccination_records/" + soonID + "/mark_as_expired"
		st, body := doReq(t, ts.URL, "POST", path, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark_as_expired, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "POST", path, nil)
		if st != http.StatusBadRequest || !strings.Contains(string(body), "already marked as expired") {
			t.Fatalf("expected 400 already expired, got %d body=%s", st, string(body))
		}
	}
	// una por el create vencido, otra por mark_as_expired
	if n := broker.Len(); n != 2 {
		t.Fatalf("expected 2 notification tasks, got %d", n)
	}

	// 6) Borrar mascota borra sus registros
	{
		st, body := doReq(t, ts.URL, "DELETE", "/api/v1/pets/"+petID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete pet, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/v1/pets/"+petID+"/vaccination_records/"+soonID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 record after pet delete, got %d", st)
		}
	}
}

func TestHTTP_PetErrors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// Falta la clave raíz
	{
		st, body := doRaw(t, ts.URL, "POST", "/api/v1/pets", `{"name":"Rex"}`)
		if st != http.StatusBadRequest || !strings.Contains(string(body), "param is missing or the value is empty: pet") {
			t.Fatalf("expected 400 missing pet, got %d body=%s", st, string(body))
		}
	}

	// Validación
	{
		st, body := doReq(t, ts.URL, "POST", "/api/v1/pets", map[string]any{"pet": map[string]any{"name": "R", "breed": "", "age": 31}})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d body=%s", st, string(body))
		}
		var resp struct {
			Error  string   `json:"error"`
			Errors []string `json:"errors"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Error != "Validation failed" || len(resp.Errors) < 3 {
			t.Fatalf("expected every violation listed, body=%s", string(body))
		}
	}

	// age no entero: 422 con el campo, no 400
	for raw, want := range map[string]string{
		`{"pet":{"name":"Rex","breed":"Labrador","age":2.5}}`: "Age must be an integer",
		`{"pet":{"name":"Rex","breed":"Labrador","age":"x"}}`: "Age is not a number",
		`{"pet":{"name":"R","breed":"Labrador","age":true}}`:  "Age is not a number",
	} {
		st, body := doRaw(t, ts.URL, "POST", "/api/v1/pets", raw)
		if st != http.StatusUnprocessableEntity || !strings.Contains(string(body), want) {
			t.Fatalf("expected 422 %q for %s, got %d body=%s", want, raw, st, string(body))
		}
	}

	// Inexistente
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/pets/does-not-exist", nil)
		if st != http.StatusNotFound || !strings.Contains(string(body), "Record not found") {
			t.Fatalf("expected 404, got %d body=%s", st, string(body))
		}
	}

	// Registro con fechas invertidas
	{
		petID := createPet(t, ts.URL, map[string]any{"name": "Milo", "breed": "Beagle", "age": 1})
		st, body := doReq(t, ts.URL, "POST", "/api/v1/pets/"+petID+"/vaccination_records", map[string]any{
			"vaccination_record": map[string]any{"name": "Rabies", "vaccination_date": "2024-01-01", "expiry_date": "2023-12-31"},
		})
		if st != http.StatusUnprocessableEntity || !strings.Contains(string(body), "must be after vaccination date") {
			t.Fatalf("expected 422 date ordering, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_PetListFiltersAndPagination(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	createPet(t, ts.URL, map[string]any{"name": "Bobby", "breed": "Labrador", "age": 1})
	createPet(t, ts.URL, map[string]any{"name": "Rex", "breed": "labrador", "age": 5})
	createPet(t, ts.URL, map[string]any{"name": "Old", "breed": "Beagle", "age": 12})

	type listResp struct {
		Pets []struct {
			Name string `json:"name"`
		} `json:"pets"`
		Meta struct {
			CurrentPage int  `json:"current_page"`
			NextPage    *int `json:"next_page"`
			TotalPages  int  `json:"total_pages"`
			TotalCount  int  `json:"total_count"`
			PerPage     int  `json:"per_page"`
		} `json:"meta"`
	}
	list := func(query string) listResp {
		t.Helper()
		st, body := doReq(t, ts.URL, "GET", "/api/v1/pets"+query, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list %q, got %d body=%s", query, st, string(body))
		}
		var out listResp
		_ = json.Unmarshal(body, &out)
		return out
	}

	if got := list("?breed=LABRADOR"); got.Meta.TotalCount != 2 {
		t.Fatalf("breed filter should be case-insensitive, got %+v", got)
	}
	if got := list("?age_category=senior"); len(got.Pets) != 1 || got.Pets[0].Name != "Old" {
		t.Fatalf("age_category filter, got %+v", got)
	}
	if got := list("?sort=name"); len(got.Pets) != 3 || got.Pets[0].Name != "Bobby" {
		t.Fatalf("sort name, got %+v", got)
	}
	// Sort fuera de whitelist: orden por defecto, sin error
	if got := list("?sort=id;%20DROP%20TABLE"); len(got.Pets) != 3 || got.Pets[0].Name != "Old" {
		t.Fatalf("invalid sort should fall back to -created_at, got %+v", got)
	}

	got := list("?per_page=500")
	if got.Meta.PerPage != 100 || got.Meta.TotalPages != 1 {
		t.Fatalf("per_page should clamp to 100, got %+v", got.Meta)
	}
	got = list("?per_page=2&page=1&sort=age")
	if len(got.Pets) != 2 || got.Meta.NextPage == nil || *got.Meta.NextPage != 2 || got.Meta.TotalPages != 2 {
		t.Fatalf("unexpected page meta: %+v", got.Meta)
	}
	got = list("?page=9223372036854775807&per_page=100")
	if len(got.Pets) != 0 || got.Meta.NextPage != nil || got.Meta.TotalCount != 3 {
		t.Fatalf("huge page should be past the end, got %+v", got)
	}
}

func TestHTTP_OperationalEndpoints(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Metrics: metrics.New()}))
	defer ts.Close()

	for _, path := range []string{"/up", "/api/v1/health", "/metrics", "/swagger/doc.json"} {
		st, body := doReq(t, ts.URL, "GET", path, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on %s, got %d body=%s", path, st, string(body))
		}
	}

	st, body := doReq(t, ts.URL, "GET", "/api/v1/health", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"task_broker"`) {
		t.Fatalf("unexpected health body: %s", string(body))
	}
}

func createPet(t *testing.T, baseURL string, attrs map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/v1/pets", map[string]any{"pet": attrs})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		Pet struct {
			ID string `json:"id"`
		} `json:"pet"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Pet.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.Pet.ID
}

func createRecord(t *testing.T, baseURL, petID string, attrs map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/v1/pets/"+petID+"/vaccination_records", map[string]any{"vaccination_record": attrs})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create record, got %d body=%s", st, string(body))
	}

	var resp struct {
		VaccinationRecord struct {
			ID string `json:"id"`
		} `json:"vaccination_record"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.VaccinationRecord.ID == "" {
		t.Fatalf("create record: missing id body=%s", string(body))
	}
	return resp.VaccinationRecord.ID
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var raw string
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		raw = string(b)
	}
	return doRaw(t, baseURL, method, path, raw)
}

func doRaw(t *testing.T, baseURL, method, path, raw string) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if raw != "" {
		rdr = bytes.NewReader([]byte(raw))
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if raw != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
