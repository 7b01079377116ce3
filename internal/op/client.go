// Package op is a client for the OpenProject API v3. It is the only place
// the module performs network I/O; everything above it consumes the
// already-fetched snapshots it returns.
package op

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"ophub/internal/duration"
	"ophub/internal/models"
)

const (
	apiBase = "/api/v3"

	defaultHTTPTimeout = 15 * time.Second
	httpTimeoutEnvKey  = "OPHUB_HTTP_TIMEOUT"

	defaultPageSize = 500

	// memberRoleName is looked up when auto-joining a project; role id 3 is
	// the instance default for plain members and serves as fallback.
	memberRoleName       = "Miembro"
	fallbackMemberRoleID = 3

	dateLayout = "2006-01-02"
)

// Client talks to one OpenProject instance with API-key basic auth.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	// me caches the authenticated user for the lifetime of the client.
	// Operations run synchronously one at a time, so no locking is needed.
	me *models.User
}

// NewClient creates a client for the given instance URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// TaskFilter narrows a work package listing. Assignee is "me", a numeric
// user id, or empty for no assignee filter. When IncludeClosed is false,
// tasks whose status looks retired are dropped client-side.
type TaskFilter struct {
	Assignee      string
	IncludeClosed bool
	PageSize      int
}

// Me fetches and caches the authenticated user.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	if c.me != nil {
		return *c.me, nil
	}
	var element userElement
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &element); err != nil {
		return models.User{}, err
	}
	user := toUser(element)
	c.me = &user
	return user, nil
}

// ValidateLogin checks the configured credentials by fetching the current
// user.
func (c *Client) ValidateLogin(ctx context.Context) error {
	_, err := c.Me(ctx)
	return err
}

// ListProjects fetches all visible projects with their parent reference.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var collection projectCollection
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &collection); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(collection.Embedded.Elements))
	for _, element := range collection.Embedded.Elements {
		project := models.Project{ID: element.ID, Name: element.Name}
		if element.Links.Parent != nil {
			if id, ok := idFromHref(element.Links.Parent.Href); ok {
				project.ParentID = &id
			}
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// ListWorkTypes fetches the available work package types.
func (c *Client) ListWorkTypes(ctx context.Context) ([]models.WorkType, error) {
	elements, err := c.listNamed(ctx, "/types")
	if err != nil {
		return nil, err
	}
	types := make([]models.WorkType, 0, len(elements))
	for _, element := range elements {
		types = append(types, models.WorkType(element))
	}
	return types, nil
}

// Statuses fetches the status vocabulary of the instance.
func (c *Client) Statuses(ctx context.Context) ([]models.Status, error) {
	elements, err := c.listNamed(ctx, "/statuses")
	if err != nil {
		return nil, err
	}
	statuses := make([]models.Status, 0, len(elements))
	for _, element := range elements {
		statuses = append(statuses, models.Status(element))
	}
	return statuses, nil
}

// ListRoles fetches the membership roles of the instance.
func (c *Client) ListRoles(ctx context.Context) ([]models.Role, error) {
	elements, err := c.listNamed(ctx, "/roles")
	if err != nil {
		return nil, err
	}
	roles := make([]models.Role, 0, len(elements))
	for _, element := range elements {
		roles = append(roles, models.Role(element))
	}
	return roles, nil
}

// ListUsers fetches the known users.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var collection userCollection
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &collection); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(collection.Embedded.Elements))
	for _, element := range collection.Embedded.Elements {
		users = append(users, toUser(element))
	}
	return users, nil
}

// ListTasks fetches work packages sorted by last update, newest first.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("sortBy", `[["updatedAt", "desc"]]`)
	if filter.Assignee != "" {
		filters, err := assigneeFilter(filter.Assignee)
		if err != nil {
			return nil, err
		}
		query.Set("filters", filters)
	}

	var collection workPackageCollection
	if err := c.do(ctx, http.MethodGet, "/work_packages", query, nil, &collection); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(collection.Embedded.Elements))
	for _, element := range collection.Embedded.Elements {
		task := toTask(element)
		if !filter.IncludeClosed && models.IsInactiveStatus(task.Status) {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Task fetches a single work package.
func (c *Client) Task(ctx context.Context, id int) (models.Task, error) {
	var element workPackageElement
	if err := c.do(ctx, http.MethodGet, "/work_packages/"+strconv.Itoa(id), nil, nil, &element); err != nil {
		return models.Task{}, err
	}
	return toTask(element), nil
}

// CreateTask creates a work package assigned to the authenticated user.
// When the API rejects the assignee for lack of project membership, the
// client performs exactly one membership-add and one retry, then gives up.
func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error) {
	body := wpCreateBody{
		Subject: req.Subject,
		Links: wpCreateLinks{
			Project:  halLink{Href: fmt.Sprintf("%s/projects/%d", apiBase, req.ProjectID)},
			Type:     halLink{Href: fmt.Sprintf("%s/types/%d", apiBase, req.TypeID)},
			Assignee: halLink{Href: c.assigneeHref(ctx)},
		},
	}
	if req.EstimatedHours > 0 {
		body.EstimatedTime = duration.Format(req.EstimatedHours)
	}
	if req.DueDate != "" {
		body.DueDate = req.DueDate
	}
	if req.Description != "" {
		body.Description = &formattedText{Format: "markdown", Raw: req.Description}
	}

	task, err := c.createOnce(ctx, body)
	switch {
	case err == nil:
		return task, nil
	case isMembershipRejection(err):
		return c.joinAndRetry(ctx, req.ProjectID, body, err)
	default:
		return models.Task{}, err
	}
}

// joinAndRetry is the one-shot remediation for a membership rejection: add
// the user to the project, retry the creation once, surface whatever the
// retry returns.
func (c *Client) joinAndRetry(ctx context.Context, projectID int, body wpCreateBody, cause error) (models.Task, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("assignee is not a project member and current user is unknown: %w", cause)
	}

	slog.Info("assignee not a project member, attempting to join", "project_id", projectID, "user_id", me.ID)
	if err := c.AddMember(ctx, projectID, me.ID, c.memberRoleID(ctx)); err != nil {
		return models.Task{}, fmt.Errorf("auto-join project %d failed: %w", projectID, err)
	}
	return c.createOnce(ctx, body)
}

func (c *Client) createOnce(ctx context.Context, body wpCreateBody) (models.Task, error) {
	var element workPackageElement
	if err := c.do(ctx, http.MethodPost, "/work_packages", nil, body, &element); err != nil {
		return models.Task{}, err
	}
	return toTask(element), nil
}

// memberRoleID resolves the plain member role by name, falling back to the
// conventional id when the lookup fails.
func (c *Client) memberRoleID(ctx context.Context) int {
	roles, err := c.ListRoles(ctx)
	if err != nil {
		return fallbackMemberRoleID
	}
	for _, role := range roles {
		if role.Name == memberRoleName {
			return role.ID
		}
	}
	return fallbackMemberRoleID
}

// UpdateTask patches a work package with only the supplied fields. The
// patch's lock version must match the server's current one; a stale value
// comes back as a conflict (IsConflict).
func (c *Client) UpdateTask(ctx context.Context, id int, patch models.TaskPatch) error {
	body := wpPatchBody{
		LockVersion:    patch.LockVersion,
		Subject:        patch.Subject,
		DueDate:        patch.DueDate,
		PercentageDone: patch.Progress,
	}
	if patch.Description != nil {
		body.Description = &formattedText{Format: "markdown", Raw: *patch.Description}
	}
	if patch.EstimatedHours != nil {
		encoded := duration.Format(*patch.EstimatedHours)
		body.EstimatedTime = &encoded
	}
	if patch.StatusID != nil {
		body.Links = &wpPatchLinks{
			Status: halLink{Href: fmt.Sprintf("%s/statuses/%d", apiBase, *patch.StatusID)},
		}
	}

	return c.do(ctx, http.MethodPatch, "/work_packages/"+strconv.Itoa(id), nil, body, nil)
}

// CreateTimeEntry logs hours against a work package. SpentOn defaults to
// the current date when empty.
func (c *Client) CreateTimeEntry(ctx context.Context, req models.TimeEntryRequest) error {
	spentOn := req.SpentOn
	if spentOn == "" {
		spentOn = time.Now().Format(dateLayout)
	}

	body := timeEntryBody{
		Hours:   duration.Format(req.Hours),
		Comment: formattedText{Format: "markdown", Raw: req.Comment},
		SpentOn: spentOn,
		Links: timeEntryLinks{
			WorkPackage: halLink{Href: fmt.Sprintf("%s/work_packages/%d", apiBase, req.TaskID)},
		},
	}
	return c.do(ctx, http.MethodPost, "/time_entries", nil, body, nil)
}

// AddMember adds a user to a project with the given role.
func (c *Client) AddMember(ctx context.Context, projectID, userID, roleID int) error {
	body := membershipBody{
		Links: membershipLinks{
			Project:   halLink{Href: fmt.Sprintf("%s/projects/%d", apiBase, projectID)},
			Principal: halLink{Href: fmt.Sprintf("%s/users/%d", apiBase, userID)},
			Roles:     []halLink{{Href: fmt.Sprintf("%s/roles/%d", apiBase, roleID)}},
		},
	}
	return c.do(ctx, http.MethodPost, "/memberships", nil, body, nil)
}

func (c *Client) assigneeHref(ctx context.Context) string {
	if me, err := c.Me(ctx); err == nil {
		return fmt.Sprintf("%s/users/%d", apiBase, me.ID)
	}
	return apiBase + "/users/me"
}

func (c *Client) listNamed(ctx context.Context, endpoint string) ([]namedElement, error) {
	var collection namedCollection
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &collection); err != nil {
		return nil, err
	}
	return collection.Embedded.Elements, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	target := c.baseURL + apiBase + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body apiErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Identifier = body.ErrorIdentifier
		apiErr.Message = body.Message
		apiErr.Attribute = body.Embedded.Details.Attribute
	}
	return apiErr
}

func assigneeFilter(assignee string) (string, error) {
	filters := []map[string]any{
		{"assignee": map[string]any{"operator": "=", "values": []string{assignee}}},
	}
	encoded, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func toUser(element userElement) models.User {
	return models.User{
		ID:   element.ID,
		Name: strings.TrimSpace(element.FirstName + " " + element.LastName),
	}
}

func toTask(element workPackageElement) models.Task {
	task := models.Task{
		ID:          element.ID,
		Subject:     element.Subject,
		Status:      element.Links.Status.Title,
		Priority:    element.Links.Priority.Title,
		ProjectName: element.Links.Project.Title,
		LockVersion: element.LockVersion,
		UpdatedAt:   element.UpdatedAt,
		Assignee:    "Unassigned",
	}
	if element.Links.Assignee != nil && element.Links.Assignee.Title != "" {
		task.Assignee = element.Links.Assignee.Title
	}
	if id, ok := idFromHref(element.Links.Project.Href); ok {
		task.ProjectID = &id
	}
	if element.PercentageDone != nil {
		task.Progress = *element.PercentageDone
	}
	if element.DueDate != nil {
		task.DueDate = *element.DueDate
	}
	if element.EstimatedTime != nil {
		task.EstimatedTime = *element.EstimatedTime
	}
	if element.SpentTime != nil {
		task.SpentTime = *element.SpentTime
	}
	return task
}

// idFromHref extracts the numeric tail of an API href such as
// /api/v3/projects/123.
func idFromHref(href string) (int, bool) {
	if href == "" {
		return 0, false
	}
	id, err := strconv.Atoi(path.Base(href))
	if err != nil {
		return 0, false
	}
	return id, true
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
