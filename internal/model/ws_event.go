package model

import "encoding/json"

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type WSNotice struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

type WSAnnounce struct {
	Message string `json:"message"`
}
