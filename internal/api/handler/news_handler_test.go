package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/seismo-watch/seismic-api/internal/api/middleware"
	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

func TestNewsHandler_Create_AuthorFromToken(t *testing.T) {
	stub := &stubNewsService{}
	c, rec := jsonContext(newEcho(), http.MethodPost, "/api/news",
		`{"title":"Aftershock advisory","content":"Stay alert.","author_id":"someone-else"}`)
	c.Set(middleware.CtxUserID, "admin-1")

	if err := NewNewsHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.created == nil || stub.created.AuthorID != "admin-1" {
		t.Fatalf("expected author from token, got %+v", stub.created)
	}
}

func TestNewsHandler_Create_RequiresFields(t *testing.T) {
	stub := &stubNewsService{}
	c, _ := jsonContext(newEcho(), http.MethodPost, "/api/news", `{"title":"no body"}`)
	c.Set(middleware.CtxUserID, "admin-1")

	if err := NewNewsHandler(stub).Create(c); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stub.created != nil {
		t.Errorf("service must not be called")
	}
}

func TestNewsHandler_Update_PassesPathID(t *testing.T) {
	stub := &stubNewsService{}
	c, rec := jsonContext(newEcho(), http.MethodPut, "/", `{"title":"Revised"}`)
	c.SetParamNames("id")
	c.SetParamValues("n9")

	if err := NewNewsHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.updatedID != "n9" || stub.lastUpdate.Title != "Revised" || stub.lastUpdate.Content != "" {
		t.Errorf("unexpected update call id=%s in=%+v", stub.updatedID, stub.lastUpdate)
	}
	var resp newsResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID != "n9" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestNewsHandler_GetAndDelete_NotFound(t *testing.T) {
	stub := &stubNewsService{getErr: domain.ErrNewsNotFound, deleteErr: domain.ErrNewsNotFound}
	h := NewNewsHandler(stub)

	c, _ := jsonContext(newEcho(), http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Get(c); !errors.Is(err, domain.ErrNewsNotFound) {
		t.Fatalf("expected ErrNewsNotFound on get, got %v", err)
	}

	c, _ = jsonContext(newEcho(), http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Delete(c); !errors.Is(err, domain.ErrNewsNotFound) {
		t.Fatalf("expected ErrNewsNotFound on delete, got %v", err)
	}
}

func TestNewsHandler_Delete(t *testing.T) {
	c, rec := jsonContext(newEcho(), http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("n1")

	if err := NewNewsHandler(&stubNewsService{}).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp messageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "News article deleted successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestNewsHandler_List_EmptyIsArray(t *testing.T) {
	c, rec := jsonContext(newEcho(), http.MethodGet, "/api/news", "")

	if err := NewNewsHandler(&stubNewsService{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}
