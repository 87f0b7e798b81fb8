package dokuwiki

import (
	"context"
	"fmt"

	"github.com/smnsjas/go-dokuwiki/xmlrpc"
)

// Structs groups the commands of the struct plugin, which attaches
// schema-based data to pages. The plugin is optional; on a wiki without
// it every command fails with a method-not-found fault.
//
// Field shapes vary between plugin versions, so results stay generic
// maps and slices rather than fixed structs.
type Structs struct {
	c *Client
}

// GetData returns the structured data recorded on page. An empty schema
// selects all schemas; timestamp 0 selects the current revision. A page
// without any data, or a page that does not exist, yields an empty map.
func (s *Structs) GetData(ctx context.Context, page, schema string, timestamp int) (map[string]any, error) {
	result, err := s.c.Send(ctx, "plugin.struct.getData", page, schema, timestamp)
	if err != nil {
		if f, ok := xmlrpc.AsFault(err); ok && f.IsPageNotFound() {
			return map[string]any{}, nil
		}
		return nil, err
	}

	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dokuwiki: unexpected struct data result %T", result)
	}
	return m, nil
}

// SaveData records structured data on page. The data map is keyed by
// schema name, each value holding the field assignments for that schema.
func (s *Structs) SaveData(ctx context.Context, page string, data map[string]any, summary string, minor bool) error {
	_, err := s.c.Send(ctx, "plugin.struct.saveData", page, data, summary, minor)
	return err
}

// GetSchema returns the definition of the named schema, or of every
// schema when name is empty.
func (s *Structs) GetSchema(ctx context.Context, name string) (map[string]any, error) {
	result, err := s.c.Send(ctx, "plugin.struct.getSchema", name)
	if err != nil {
		return nil, err
	}

	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dokuwiki: unexpected schema result %T", result)
	}
	return m, nil
}

// GetAggregationData queries columns across schemas the way a struct
// aggregation does. Filters are clause strings such as "pages = foo";
// sort names the column to order by and may be empty.
func (s *Structs) GetAggregationData(ctx context.Context, schemas, columns, filters []string, sort string) ([]map[string]any, error) {
	result, err := s.c.Send(ctx, "plugin.struct.getAggregationData", schemas, columns, filters, sort)
	if err != nil {
		return nil, err
	}
	return structList(result), nil
}
