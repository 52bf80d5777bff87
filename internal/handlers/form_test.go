package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pace_service_tool/internal/models"
	"pace_service_tool/internal/service"

	"gopkg.in/yaml.v3"
)

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Buffer
	if body != "" {
		rdr = bytes.NewBufferString(body)
	} else {
		rdr = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) formView {
	t.Helper()
	var v formView
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal view: %v; body=%s", err, w.Body.String())
	}
	return v
}

func TestHealthAndOptions(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), statusOK) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("options status=%d", w.Code)
	}
	var opts models.FormOptions
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil {
		t.Fatal(err)
	}
	if len(opts.Manufacturers) != 15 || len(opts.OutdoorFanCounts) != 5 || len(opts.IndoorFanCounts) != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestFormHandlers_CompressorScenario(t *testing.T) {
	form := newMockForm()
	r := newTestRouter(&service.Service{Form: form})

	w := doJSON(t, r, http.MethodGet, "/api/v1/form", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get form status=%d", w.Code)
	}
	if v := decodeView(t, w); len(v.VisibleCompressors) != 0 || len(v.VisibleOutdoorFans) != 1 {
		t.Fatalf("default view: %+v", v)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/form/fields/numCompressors", `{"value":"2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set count status=%d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPut, "/api/v1/form/motors/compressors/0/volts", `{"value":"460"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set volts status=%d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPut, "/api/v1/form/motors/compressors/1/rla", `{"value":"12.5"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set rla status=%d body=%s", w.Code, w.Body.String())
	}

	v := decodeView(t, w)
	want := []models.MotorSpec{{Label: "ComprA", Volts: "460"}, {Label: "ComprB", RLA: "12.5"}}
	if len(v.VisibleCompressors) != 2 || v.VisibleCompressors[0] != want[0] || v.VisibleCompressors[1] != want[1] {
		t.Fatalf("visible compressors = %+v", v.VisibleCompressors)
	}
	if v.Record.Compressors[2] != (models.MotorSpec{Label: "ComprC"}) {
		t.Fatalf("hidden slot changed: %+v", v.Record.Compressors[2])
	}
	if form.lastMotor.Index != 1 || form.lastMotor.Field != models.MotorRLA {
		t.Fatalf("motor params not passed through: %+v", form.lastMotor)
	}
}

func TestFormHandlers_SectionAndEmptyValue(t *testing.T) {
	form := newMockForm()
	form.current.ModelNumber = "old"
	r := newTestRouter(&service.Service{Form: form})

	w := doJSON(t, r, http.MethodPut, "/api/v1/form/sections/cooling/outputCapacityKw", `{"value":"10.6"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("section status=%d body=%s", w.Code, w.Body.String())
	}
	if got := decodeView(t, w).Record.Cooling.OutputCapacityKw; got != "10.6" {
		t.Fatalf("cooling output = %q", got)
	}

	// clearing a field is a valid edit
	w = doJSON(t, r, http.MethodPut, "/api/v1/form/fields/modelNumber", `{"value":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("clear status=%d body=%s", w.Code, w.Body.String())
	}
	if form.current.ModelNumber != "" {
		t.Fatalf("model number not cleared")
	}
}

func TestFormHandlers_Errors(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"missing value", "/api/v1/form/fields/manufacturer", `{}`, http.StatusBadRequest},
		{"bad json", "/api/v1/form/fields/manufacturer", `{"value":`, http.StatusBadRequest},
		{"unknown field", "/api/v1/form/fields/color", `{"value":"red"}`, http.StatusNotFound},
		{"non-integer count", "/api/v1/form/fields/numCompressors", `{"value":"two"}`, http.StatusBadRequest},
		{"bad index", "/api/v1/form/motors/compressors/x/volts", `{"value":"1"}`, http.StatusBadRequest},
		{"index out of range", "/api/v1/form/motors/indoorFans/2/volts", `{"value":"1"}`, http.StatusNotFound},
		{"fan lra", "/api/v1/form/motors/outdoorFans/0/lra", `{"value":"1"}`, http.StatusNotFound},
		{"unknown section", "/api/v1/form/sections/airflow/cfm", `{"value":"1"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Form: newMockForm()})
			w := doJSON(t, r, http.MethodPut, tc.path, tc.body)
			if w.Code != tc.code {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.code, w.Body.String())
			}
			var resp map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if resp["error"] == "" {
				t.Fatalf("expected error message, got %s", w.Body.String())
			}
		})
	}
}

func TestFormHandlers_UnexpectedErrorIs500(t *testing.T) {
	form := newMockForm()
	form.updateErr = errors.New("boom")
	r := newTestRouter(&service.Service{Form: form})

	w := doJSON(t, r, http.MethodPut, "/api/v1/form/fields/manufacturer", `{"value":"Aaon"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestExportForm(t *testing.T) {
	form := newMockForm()
	form.current.Manufacturer = "Bosch"
	form.current.Compressors[0].LRA = "61"
	r := newTestRouter(&service.Service{Form: form})

	w := doJSON(t, r, http.MethodGet, "/api/v1/form/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("json export status=%d", w.Code)
	}
	var fromJSON models.EquipmentRecord
	if err := json.Unmarshal(w.Body.Bytes(), &fromJSON); err != nil || fromJSON != form.current {
		t.Fatalf("json export mismatch: %v %+v", err, fromJSON)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/form/export?format=yaml", "")
	if w.Code != http.StatusOK {
		t.Fatalf("yaml export status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/x-yaml") {
		t.Fatalf("content type = %q", ct)
	}
	var fromYAML models.EquipmentRecord
	if err := yaml.Unmarshal(w.Body.Bytes(), &fromYAML); err != nil || fromYAML != form.current {
		t.Fatalf("yaml export mismatch: %v %+v", err, fromYAML)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/form/export?format=csv", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unsupported format status=%d", w.Code)
	}
}
