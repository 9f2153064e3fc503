// Package component models renderable units that receive a prop set and the
// decorators that wrap them.
//
// Decorators compose cross-cutting behaviour (progress injection, dispatch
// injection, transition detection) around a presentational component without
// the component knowing about it. Internal bookkeeping props use the
// double-underscore naming shape and are stripped by Omit before reaching the
// wrapped component.
package component
