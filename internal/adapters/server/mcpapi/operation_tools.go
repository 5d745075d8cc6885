package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hylla/weekplan/internal/adapters/server/common"
	"github.com/hylla/weekplan/internal/domain"
)

// operationArg names one argument an operation tool accepts.
type operationArg uint8

const (
	argTaskID operationArg = 1 << iota
	argMulti
	argDay
	argField
	argValue
)

// operationTool describes one store operation exposed as an MCP tool.
type operationTool struct {
	name        string
	op          domain.ChangeOperation
	description string
	required    operationArg
	optional    operationArg
}

// operationTools lists every store operation in tool form.
var operationTools = []operationTool{
	{name: "select", op: domain.ChangeOperationSelect, description: "Select one task. With multi, toggle it within the current selection.", required: argTaskID, optional: argMulti},
	{name: "copy", op: domain.ChangeOperationCopy, description: "Copy the selection to the clipboard. Pasting creates duplicates with fresh ids."},
	{name: "cut", op: domain.ChangeOperationCut, description: "Cut the selection to the clipboard. Pasting moves the tasks and empties the clipboard."},
	{name: "paste", op: domain.ChangeOperationPaste, description: "Paste the clipboard into a day.", required: argDay},
	{name: "folder_add", op: domain.ChangeOperationFolderAdd, description: "Reference every selected task from the billing folder and clear the selection."},
	{name: "folder_remove", op: domain.ChangeOperationFolderRemove, description: "Remove one task from the billing folder. Its day is untouched.", required: argTaskID},
	{name: "drag_begin", op: domain.ChangeOperationDragBegin, description: "Start dragging a task. Dragging a selected task carries the whole selection.", required: argTaskID},
	{name: "drop", op: domain.ChangeOperationDrop, description: "Drop the pending drag onto a day, moving the carried tasks.", required: argDay},
	{name: "drop_folder", op: domain.ChangeOperationDropFolder, description: "Drop the pending drag onto the billing folder."},
	{name: "drag_cancel", op: domain.ChangeOperationDragCancel, description: "Discard the pending drag."},
	{name: "edit_begin", op: domain.ChangeOperationEditBegin, description: "Open the edit form for a task.", required: argTaskID},
	{name: "edit_field", op: domain.ChangeOperationEditField, description: "Set one field of the open edit form.", required: argField, optional: argValue},
	{name: "edit_commit", op: domain.ChangeOperationEditCommit, description: "Write the open edit form back to its task."},
	{name: "edit_cancel", op: domain.ChangeOperationEditCancel, description: "Close the open edit form without saving."},
}

// registerOperationTools registers one tool per store operation.
func registerOperationTools(srv *mcpserver.MCPServer, prefix string, board common.BoardService) {
	for _, def := range operationTools {
		srv.AddTool(def.tool(prefix), def.handler(board))
	}
}

// has reports whether set includes arg.
func (a operationArg) has(arg operationArg) bool {
	return a&arg != 0
}

// tool builds the MCP tool definition with its argument schema.
func (t operationTool) tool(prefix string) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.description)}
	accepted := t.required | t.optional
	if accepted.has(argTaskID) {
		opts = append(opts, mcp.WithNumber("task_id", argOptions(t.required.has(argTaskID), "Task identifier")...))
	}
	if accepted.has(argMulti) {
		opts = append(opts, mcp.WithBoolean("multi", mcp.Description("Toggle within the selection instead of replacing it")))
	}
	if accepted.has(argDay) {
		opts = append(opts, mcp.WithString("day", argOptions(t.required.has(argDay), "Day bucket name")...))
	}
	if accepted.has(argField) {
		opts = append(opts, mcp.WithString("field", append(argOptions(t.required.has(argField), "Form field"),
			mcp.Enum(string(domain.FormFieldTitle), string(domain.FormFieldDescription), string(domain.FormFieldPoints)))...))
	}
	if accepted.has(argValue) {
		opts = append(opts, mcp.WithString("value", mcp.Description("Raw field value; non-numeric points become 0")))
	}
	return mcp.NewTool(prefix+"."+t.name, opts...)
}

// handler returns the tool-call handler forwarding to the board.
func (t operationTool) handler(board common.BoardService) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opReq := common.OperationRequest{Op: t.op}
		var err error
		if t.required.has(argTaskID) {
			if opReq.TaskID, err = req.RequireInt("task_id"); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		if t.required.has(argDay) {
			if opReq.Day, err = req.RequireString("day"); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		if t.required.has(argField) {
			if opReq.Field, err = req.RequireString("field"); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		if t.optional.has(argMulti) {
			opReq.Multi = req.GetBool("multi", false)
		}
		if t.optional.has(argValue) {
			opReq.Value = req.GetString("value", "")
		}

		out, err := board.Apply(ctx, opReq)
		if err != nil {
			return toolResultFromError(err), nil
		}
		result, err := mcp.NewToolResultJSON(out)
		if err != nil {
			return nil, fmt.Errorf("encode %s result: %w", t.name, err)
		}
		return result, nil
	}
}

func argOptions(required bool, description string) []mcp.PropertyOption {
	opts := []mcp.PropertyOption{mcp.Description(description)}
	if required {
		opts = append(opts, mcp.Required())
	}
	return opts
}
