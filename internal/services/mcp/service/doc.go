// Package service serves the dice roller as MCP tools over stdio or
// streamable HTTP.
package service
