package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/mailer"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/routes"
	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/store"
)

type fakePatients struct {
	patients map[string]*models.Patient
}

func (f *fakePatients) Create(_ context.Context, p *models.Patient) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%d", len(f.patients)+1)
	}
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatients) ByID(_ context.Context, id string) (*models.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakePatients) ByEmail(_ context.Context, email string) (*models.Patient, error) {
	for _, p := range f.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeAppointments struct {
	appts  map[string]models.Appointment
	nextID int
}

func (f *fakeAppointments) slotTaken(date, clock, excludeID string) bool {
	for _, a := range f.appts {
		if a.Date == date && a.Time == clock && a.ID != excludeID {
			return true
		}
	}
	return false
}

func (f *fakeAppointments) CreateBatch(_ context.Context, appts []*models.Appointment) error {
	for _, a := range appts {
		if f.slotTaken(a.Date, a.Time, "") {
			return store.ErrDuplicate
		}
	}
	for _, a := range appts {
		f.nextID++
		a.ID = fmt.Sprintf("a%d", f.nextID)
		f.appts[a.ID] = *a
	}
	return nil
}

func (f *fakeAppointments) ByID(_ context.Context, id string) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAppointments) ByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) ByDate(_ context.Context, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) Save(_ context.Context, a *models.Appointment) error {
	if f.slotTaken(a.Date, a.Time, a.ID) {
		return store.ErrDuplicate
	}
	f.appts[a.ID] = *a
	return nil
}

func (f *fakeAppointments) Delete(_ context.Context, id string) error {
	if _, ok := f.appts[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.appts, id)
	return nil
}

func (f *fakeAppointments) DeleteByPatient(_ context.Context, patientID string) error {
	for id, a := range f.appts {
		if a.PatientID == patientID {
			delete(f.appts, id)
		}
	}
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func setup(t *testing.T) (*gin.Engine, *fakePatients) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	patients := &fakePatients{patients: make(map[string]*models.Patient)}
	appts := &fakeAppointments{appts: make(map[string]models.Appointment)}
	st := &store.Store{Patients: patients, Appointments: appts}
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 24,
		Environment:        "development",
	}
	scheduler := scheduling.NewService(patients, appts, mailer.Disabled{}, zerolog.Nop())

	router := gin.New()
	routes.SetupRoutes(router, st, scheduler, cfg)
	return router, patients
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func addPatient(t *testing.T, patients *fakePatients, name, email, password string) *models.Patient {
	t.Helper()
	p := &models.Patient{Name: name, Email: email}
	if err := p.SetPassword(password); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := patients.Create(context.Background(), p); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

func TestRegister(t *testing.T) {
	router, _ := setup(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Ada Lovelace", "email": "ada@example.com", "password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !resp.Success {
		t.Error("success = false")
	}

	var created models.PatientSanitized
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.Email != "ada@example.com" || created.ID == "" {
		t.Errorf("created = %+v", created)
	}

	// Duplicate email is rejected.
	w, _ = doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Ada Again", "email": "ada@example.com", "password": "secret123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	router, _ := setup(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@b.com", "password": "secret123"}},
		{"bad email", gin.H{"name": "X", "email": "not-an-email", "password": "secret123"}},
		{"short password", gin.H{"name": "X", "email": "a@b.com", "password": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doJSON(t, router, http.MethodPost, "/api/auth/register", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if resp.Success {
				t.Error("success = true on validation failure")
			}
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	router, patients := setup(t)
	addPatient(t, patients, "Ada", "ada@example.com", "secret123")

	w, resp := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ada@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &loginData); err != nil || loginData.Token == "" {
		t.Fatalf("login data = %s (%v)", resp.Data, err)
	}

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			session = c
		}
	}
	if session == nil || !session.HttpOnly {
		t.Fatalf("session cookie = %+v, want http-only token cookie", session)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/auth/me", nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", w.Code, w.Body.String())
	}
	var me models.PatientSanitized
	if err := json.Unmarshal(resp.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "ada@example.com" {
		t.Errorf("me.email = %s", me.Email)
	}
}

func TestLoginFailures(t *testing.T) {
	router, patients := setup(t)
	addPatient(t, patients, "Ada", "ada@example.com", "secret123")

	w, _ := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ada@example.com", "password": "wrongpass",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@example.com", "password": "secret123",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown email status = %d, want 404", w.Code)
	}
}

func TestMeRequiresSession(t *testing.T) {
	router, _ := setup(t)
	w, _ := doJSON(t, router, http.MethodGet, "/api/auth/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestBookAppointment(t *testing.T) {
	router, patients := setup(t)
	p := addPatient(t, patients, "Ada", "ada@example.com", "secret123")

	w, resp := doJSON(t, router, http.MethodPost, "/api/appointments/book", gin.H{
		"patientId": p.ID, "selectedDate": "2025-06-10", "selectedTime": "10:00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var booked []models.Appointment
	if err := json.Unmarshal(resp.Data, &booked); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(booked) != 3 {
		t.Fatalf("booked %d sessions, want 3", len(booked))
	}
}

func TestBookAppointmentErrors(t *testing.T) {
	router, patients := setup(t)
	p := addPatient(t, patients, "Ada", "ada@example.com", "secret123")

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"unknown patient", gin.H{"patientId": "missing", "selectedDate": "2025-06-10", "selectedTime": "10:00"}, http.StatusNotFound},
		{"monday", gin.H{"patientId": p.ID, "selectedDate": "2025-06-09", "selectedTime": "10:00"}, http.StatusBadRequest},
		{"half hour", gin.H{"patientId": p.ID, "selectedDate": "2025-06-10", "selectedTime": "10:30"}, http.StatusBadRequest},
		{"missing fields", gin.H{"patientId": p.ID}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := doJSON(t, router, http.MethodPost, "/api/appointments/book", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	// Same first slot by a different patient conflicts.
	grace := addPatient(t, patients, "Grace", "grace@example.com", "secret123")
	if w, _ := doJSON(t, router, http.MethodPost, "/api/appointments/book", gin.H{
		"patientId": p.ID, "selectedDate": "2025-06-10", "selectedTime": "10:00",
	}); w.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d", w.Code)
	}
	w, _ := doJSON(t, router, http.MethodPost, "/api/appointments/book", gin.H{
		"patientId": grace.ID, "selectedDate": "2025-06-10", "selectedTime": "10:00",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("conflicting booking status = %d, want 409", w.Code)
	}
}

func TestGetAppointments(t *testing.T) {
	router, patients := setup(t)
	p := addPatient(t, patients, "Ada", "ada@example.com", "secret123")

	w, resp := doJSON(t, router, http.MethodGet, "/api/appointments/"+p.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty list status = %d, want 404", w.Code)
	}
	if resp.Message != "No appointments found for this patient." {
		t.Errorf("message = %q", resp.Message)
	}

	doJSON(t, router, http.MethodPost, "/api/appointments/book", gin.H{
		"patientId": p.ID, "selectedDate": "2025-06-10", "selectedTime": "10:00",
	})

	w, resp = doJSON(t, router, http.MethodGet, "/api/appointments/"+p.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var appts []models.Appointment
	if err := json.Unmarshal(resp.Data, &appts); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(appts) != 3 {
		t.Errorf("got %d appointments, want 3", len(appts))
	}
}

func TestUpdateAppointment(t *testing.T) {
	router, patients := setup(t)
	p := addPatient(t, patients, "Ada", "ada@example.com", "secret123")

	_, resp := doJSON(t, router, http.MethodPost, "/api/appointments/book", gin.H{
		"patientId": p.ID, "selectedDate": "2025-06-10", "selectedTime": "10:00",
	})
	var booked []models.Appointment
	if err := json.Unmarshal(resp.Data, &booked); err != nil {
		t.Fatalf("decode booked: %v", err)
	}

	w, resp := doJSON(t, router, http.MethodPut, "/api/appointments/update/"+booked[0].ID, gin.H{
		"newDate": "2025-06-11", "newTime": "12:00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var updated models.Appointment
	if err := json.Unmarshal(resp.Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Date != "2025-06-11" || updated.Time != "12:00" {
		t.Errorf("updated slot = (%s, %s)", updated.Date, updated.Time)
	}

	w, _ = doJSON(t, router, http.MethodPut, "/api/appointments/update/missing", gin.H{
		"newDate": "2025-06-11", "newTime": "12:00",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing appointment status = %d, want 404", w.Code)
	}
}

func TestDeleteAppointments(t *testing.T) {
	router, patients := setup(t)
	p := addPatient(t, patients, "Ada", "ada@example.com", "secret123")

	w, _ := doJSON(t, router, http.MethodDelete, "/api/appointments/"+p.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete with zero appointments status = %d, want 404", w.Code)
	}

	_, resp := doJSON(t, router, http.MethodPost, "/api/appointments/book", gin.H{
		"patientId": p.ID, "selectedDate": "2025-06-10", "selectedTime": "10:00",
	})
	var booked []models.Appointment
	if err := json.Unmarshal(resp.Data, &booked); err != nil {
		t.Fatalf("decode booked: %v", err)
	}

	// Single delete leaves the other two sessions in place.
	w, _ = doJSON(t, router, http.MethodDelete, "/api/appointments/appointment/"+booked[2].ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("single delete status = %d, body %s", w.Code, w.Body.String())
	}

	w, _ = doJSON(t, router, http.MethodDelete, "/api/appointments/"+p.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("bulk delete status = %d, body %s", w.Code, w.Body.String())
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/appointments/"+p.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("list after delete status = %d, want 404", w.Code)
	}
}
