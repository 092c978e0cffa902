package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/bnema/tronclass-cli/internal/domain"
)

const maxAPIResponseBytes = 16 << 20

// Caller is the part of Session the API needs.
type Caller interface {
	Call(ctx context.Context, endpoint string, opts ...CallOption) (*http.Response, error)
}

// API wraps the portal's JSON endpoints.
type API struct {
	caller Caller
}

func NewAPI(caller Caller) *API {
	return &API{caller: caller}
}

func (a *API) RecentlyVisitedCourses(ctx context.Context) ([]domain.VisitedCourse, error) {
	body, err := a.get(ctx, "/api/user/recently-visited-courses")
	if err != nil {
		return nil, err
	}

	// Some portal versions answer with a bare array, others wrap it.
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var courses []domain.VisitedCourse
		if err := json.Unmarshal(trimmed, &courses); err != nil {
			return nil, fmt.Errorf("decode recently visited courses: %w", err)
		}
		return courses, nil
	}

	var payload struct {
		VisitedCourses []domain.VisitedCourse `json:"visited_courses"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode recently visited courses: %w", err)
	}
	return payload.VisitedCourses, nil
}

func (a *API) Todos(ctx context.Context) ([]domain.TodoItem, error) {
	var payload struct {
		TodoList []domain.TodoItem `json:"todo_list"`
	}
	if err := a.getJSON(ctx, "/api/todos", &payload); err != nil {
		return nil, err
	}
	return payload.TodoList, nil
}

func (a *API) MyCourses(ctx context.Context) ([]domain.Course, error) {
	var payload struct {
		Courses []domain.Course `json:"courses"`
	}
	if err := a.getJSON(ctx, "/api/my-courses", &payload); err != nil {
		return nil, err
	}
	return payload.Courses, nil
}

func (a *API) HomeworkActivities(ctx context.Context, courseID int64) ([]domain.HomeworkActivity, error) {
	var payload struct {
		HomeworkActivities []domain.HomeworkActivity `json:"homework_activities"`
	}
	endpoint := "api/courses/" + strconv.FormatInt(courseID, 10) + "/homework-activities"
	if err := a.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.HomeworkActivities, nil
}

func (a *API) getJSON(ctx context.Context, endpoint string, target any) error {
	body, err := a.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (a *API) get(ctx context.Context, endpoint string) ([]byte, error) {
	resp, err := a.caller.Call(ctx, endpoint, WithHeader("Accept", "application/json"))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.APIStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
