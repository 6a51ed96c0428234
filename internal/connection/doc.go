// Package connection implements the WebSocket connection handle.
//
// A Handle:
//   - Dials one endpoint as soon as it is created (ws://localhost:8083/ws by default)
//   - Reports opened, message and closed events to an Observer
//   - Never sends, never decodes payloads, never reconnects
//   - Funnels clean closes and transport failures into the same closed event
//
// Two Transport backends are available: gorilla/websocket and coder/websocket.
package connection
