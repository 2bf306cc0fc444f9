package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listSlidesTool defines the list_slides MCP tool.
var listSlidesTool = mcp.NewTool("list_slides",
	mcp.WithDescription("List every slide in display order with its id, title and size. The active slide is marked."),
)

// getSlideTool defines the get_slide MCP tool.
var getSlideTool = mcp.NewTool("get_slide",
	mcp.WithDescription("Get the full HTML content of one slide, addressed by id or by 1-based position."),
	mcp.WithString("id",
		mcp.Description("Slide id as returned by list_slides"),
	),
	mcp.WithNumber("position",
		mcp.Description("1-based position in the deck, used when id is omitted"),
	),
)

// addSlideTool defines the add_slide MCP tool.
var addSlideTool = mcp.NewTool("add_slide",
	mcp.WithDescription("Append a new slide and make it active. Without html_content the default template is used."),
	mcp.WithString("html_content",
		mcp.Description("HTML markup for the slide body; Tailwind utility classes are available"),
	),
)

// updateSlideTool defines the update_slide MCP tool.
var updateSlideTool = mcp.NewTool("update_slide",
	mcp.WithDescription("Replace a slide's HTML content and/or override its title. Content updates re-derive the title from the first <h1>."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Slide id"),
	),
	mcp.WithString("html_content",
		mcp.Description("New HTML markup"),
	),
	mcp.WithString("title",
		mcp.Description("Display title, at most 30 characters"),
	),
)

// deleteSlideTool defines the delete_slide MCP tool.
var deleteSlideTool = mcp.NewTool("delete_slide",
	mcp.WithDescription("Delete a slide."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Slide id"),
	),
)

// locateSourceTool defines the locate_source MCP tool.
var locateSourceTool = mcp.NewTool("locate_source",
	mcp.WithDescription("Find where an element's markup appears in a slide's source. Returns the byte range and the surrounding lines."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Slide id"),
	),
	mcp.WithString("snippet",
		mcp.Required(),
		mcp.Description("Element markup, e.g. the outerHTML reported by the preview"),
	),
)
