// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - News tools: get_time, search_web, save_to_db, get_from_db,
//     get_all_from_db, get_by_id.
//   - Invariants: search never writes to the repository; save only operates
//     on a handle previously issued by search; reads never touch the cache.
package tools
