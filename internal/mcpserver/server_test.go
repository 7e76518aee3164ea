package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeui/forgeui/internal/catalog"
	"github.com/forgeui/forgeui/internal/mutator"
	"github.com/forgeui/forgeui/internal/scaffold"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

type fakeOps struct {
	mu         sync.Mutex
	addGate    chan struct{}
	addCalls   int
	lastAdd    scaffold.AddRequest
	lastInit   scaffold.InitRequest
	addErr     error
	configPath string
}

func (f *fakeOps) ListItems(context.Context) ([]catalog.ItemSummary, error) {
	return []catalog.ItemSummary{{Name: "button", Kind: catalog.KindUI}}, nil
}

func (f *fakeOps) GetItem(_ context.Context, ref string) (*catalog.Item, error) {
	if ref == "missing" {
		return nil, forgeuierrors.NewNotFound(ref)
	}
	return &catalog.Item{Name: ref, Kind: catalog.KindUI}, nil
}

func (f *fakeOps) InitInstructions(string) string { return "instructions" }

func (f *fakeOps) Init(_ context.Context, req scaffold.InitRequest) (*scaffold.InitResult, error) {
	f.mu.Lock()
	f.lastInit = req
	f.mu.Unlock()
	return &scaffold.InitResult{
		Result:     &mutator.Result{Success: true},
		ConfigPath: f.configPath,
	}, nil
}

func (f *fakeOps) Add(_ context.Context, req scaffold.AddRequest) (*mutator.Result, error) {
	f.mu.Lock()
	f.addCalls++
	f.lastAdd = req
	f.mu.Unlock()
	if f.addGate != nil {
		<-f.addGate
	}
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &mutator.Result{Success: true, ComponentsAdded: req.Components}, nil
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestListItemsReturnsIndexJSON(t *testing.T) {
	s := New(&fakeOps{}, Options{Name: "forgeui", Version: "test"})

	res, err := s.handleListItems(context.Background(), callRequest("list_items", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textContent(t, res), `"button"`)
}

func TestGetItemRequiresName(t *testing.T) {
	s := New(&fakeOps{}, Options{})

	res, err := s.handleGetItem(context.Background(), callRequest("get_item", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetItemMapsFailureToErrorResult(t *testing.T) {
	s := New(&fakeOps{}, Options{})

	res, err := s.handleGetItem(context.Background(), callRequest("get_item", map[string]any{"name": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textContent(t, res), "not found")
}

func TestExecuteInitForwardsOptions(t *testing.T) {
	ops := &fakeOps{}
	s := New(ops, Options{})

	res, err := s.handleExecuteInit(context.Background(), callRequest("execute_init", map[string]any{
		"style":        "new-york",
		"baseColor":    "zinc",
		"cssVariables": false,
		"force":        true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, "new-york", ops.lastInit.Style)
	assert.Equal(t, "zinc", ops.lastInit.BaseColor)
	assert.True(t, ops.lastInit.NoCSSVariables)
	assert.True(t, ops.lastInit.Force)
}

func TestExecuteInitEmbedsDescriptorResource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"style": "default"}`), 0o644))

	s := New(&fakeOps{configPath: path}, Options{})

	res, err := s.handleExecuteInit(context.Background(), callRequest("execute_init", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 2)

	resource, ok := mcp.AsEmbeddedResource(res.Content[1])
	require.True(t, ok)
	contents, ok := resource.Resource.(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, contents.URI, "components.json")
	assert.Equal(t, "application/json", contents.MIMEType)
	assert.Contains(t, contents.Text, `"style"`)
}

func TestExecuteInitFallsBackToTextWithoutDescriptor(t *testing.T) {
	s := New(&fakeOps{configPath: "/nonexistent/components.json"}, Options{})

	res, err := s.handleExecuteInit(context.Background(), callRequest("execute_init", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	assert.Contains(t, textContent(t, res), "configPath")
}

func TestAddItemWrapsSingleName(t *testing.T) {
	ops := &fakeOps{}
	s := New(ops, Options{})

	res, err := s.handleAddItem(context.Background(), callRequest("add_item", map[string]any{
		"name":      "button",
		"overwrite": true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []string{"button"}, ops.lastAdd.Components)
	assert.True(t, ops.lastAdd.Overwrite)
}

func TestExecuteAddForwardsComponents(t *testing.T) {
	ops := &fakeOps{}
	s := New(ops, Options{})

	res, err := s.handleExecuteAdd(context.Background(), callRequest("execute_add", map[string]any{
		"components": []any{"button", "input"},
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, []string{"button", "input"}, ops.lastAdd.Components)
}

func TestExecuteAddSurfacesOperationError(t *testing.T) {
	ops := &fakeOps{addErr: forgeuierrors.NewEmptyComponentList()}
	s := New(ops, Options{})

	res, err := s.handleExecuteAdd(context.Background(), callRequest("execute_add", map[string]any{
		"components": []any{},
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textContent(t, res), "no components requested")
}

func TestConcurrencyCeilingRejectsExcessRequests(t *testing.T) {
	gate := make(chan struct{})
	ops := &fakeOps{addGate: gate}
	s := New(ops, Options{ConcurrencyLimit: 5})

	handler := s.mutating(s.handleExecuteAdd)
	req := callRequest("execute_add", map[string]any{"components": []any{"button"}})

	results := make(chan *mcp.CallToolResult, 6)
	var started sync.WaitGroup
	for i := 0; i < 5; i++ {
		started.Add(1)
		go func() {
			started.Done()
			res, err := handler(context.Background(), req)
			require.NoError(t, err)
			results <- res
		}()
	}
	started.Wait()

	// Wait until all five in-flight calls hold a semaphore slot.
	require.Eventually(t, func() bool {
		ops.mu.Lock()
		defer ops.mu.Unlock()
		return ops.addCalls == 5
	}, 2*time.Second, 10*time.Millisecond)

	rejected, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, rejected.IsError)
	assert.Contains(t, textContent(t, rejected), "too many concurrent operations")

	close(gate)
	for i := 0; i < 5; i++ {
		res := <-results
		assert.False(t, res.IsError)
	}
}
