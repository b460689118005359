// Package mcp assembles the sub-packages into a single import for the
// common path: define primitives, serve them over stdio, call them back
// from a client.
package mcp

import (
	"github.com/TalBarda8/mcp-modular-architecture/pkg/client"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/primitives"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/schema"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/server"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/transport"
)

// Version is the current version of the module.
const Version = "0.1.0"

// Primary types, aliased so the common path needs no sub-package imports.
type (
	// Server is the lifecycle-gated core holding the three registries.
	Server = server.Server

	// Client drives a server over a request/response stream.
	Client = client.Client

	// Tool is an invokable operation with a declared parameter schema.
	Tool = primitives.Tool

	// Resource is a URI-addressed readable.
	Resource = primitives.Resource

	// Prompt is a named generator of role-tagged message sequences.
	Prompt = primitives.Prompt

	// Catalog is the primitive set a dispatcher registers on server.initialize.
	Catalog = transport.Catalog

	// Descriptor declares the expected shape of tool parameters and
	// prompt arguments.
	Descriptor = schema.Descriptor
)

// These exports provide direct access to the core components.
var (
	// NewServer creates an uninitialized server core.
	NewServer = server.New

	// NewClient creates a client over the given streams.
	NewClient = client.New

	// Spawn starts a server subprocess and connects a client to its stdio.
	Spawn = client.Spawn

	// NewDispatcher binds a server core and catalog to the wire methods.
	NewDispatcher = transport.NewDispatcher

	// NewStdioTransport creates a newline-delimited JSON transport.
	NewStdioTransport = transport.NewStdioTransport

	// NewFramer creates the line codec both sides of the wire share.
	NewFramer = transport.NewFramer
)

// Protocol constants for capabilities.
const (
	CapabilityTools     = protocol.CapabilityTools
	CapabilityResources = protocol.CapabilityResources
	CapabilityPrompts   = protocol.CapabilityPrompts
)

// Schema types for parameter descriptors.
const (
	TypeObject  = schema.TypeObject
	TypeString  = schema.TypeString
	TypeNumber  = schema.TypeNumber
	TypeInteger = schema.TypeInteger
	TypeBoolean = schema.TypeBoolean
	TypeArray   = schema.TypeArray
)

// Schema descriptor shorthand.
var (
	// ObjectSchema builds an object descriptor from its properties and
	// required property names.
	ObjectSchema = schema.Object
)

// Server options.
var (
	WithName       = server.WithName
	WithVersion    = server.WithVersion
	WithLogger     = server.WithLogger
	WithRegistries = server.WithRegistries
)

// Transport options.
var (
	WithStreams         = transport.WithStreams
	WithTransportLogger = transport.WithLogger
)

// Client options.
var (
	WithClientLogger = client.WithLogger
)
