package toolhandler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/virtual-me/agent/model"
)

// Catalog is the fixed registry of capabilities, populated once at
// startup. Registration order is preserved so tool listings are stable.
type Catalog struct {
	tools map[string]ToolHandler
	specs map[string]ToolSpec
	order []string
	mtx   sync.RWMutex
}

func (c *Catalog) Register(th ToolHandler) error {
	if th == nil {
		return fmt.Errorf("tool is nil")
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	spec := th.Spec()
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if len(key) == 0 {
		return fmt.Errorf("tool name is required")
	}

	if _, ok := c.tools[key]; ok {
		return fmt.Errorf("tool %s already registered", key)
	}

	c.tools[key] = th
	c.specs[key] = spec
	c.order = append(c.order, key)

	return nil
}

func (c *Catalog) ListSpecs() []ToolSpec {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	specs := make([]ToolSpec, 0, len(c.specs))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}

	return specs
}

// ModelTools renders every registered spec for a model call.
func (c *Catalog) ModelTools() []model.Tool {
	specs := c.ListSpecs()

	tools := make([]model.Tool, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, spec.ModelTool())
	}

	return tools
}

func (c *Catalog) Get(name string) (ToolHandler, ToolSpec, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	th, ok := c.tools[key]

	return th, c.specs[key], ok
}

func NewCatalog(handlers ...ToolHandler) (*Catalog, error) {
	c := &Catalog{
		tools: map[string]ToolHandler{},
		specs: map[string]ToolSpec{},
		order: []string{},
		mtx:   sync.RWMutex{},
	}

	for _, th := range handlers {
		if err := c.Register(th); err != nil {
			return nil, err
		}
	}

	return c, nil
}
