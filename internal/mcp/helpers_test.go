package mcp

import (
	"encoding/json"
	"testing"
)

func TestNewTextResult(t *testing.T) {
	result := NewTextResult("hello")
	if result.IsError {
		t.Error("text result should not be an error")
	}
	if text := resultText(t, result); text != "hello" {
		t.Errorf("text = %q, want %q", text, "hello")
	}
}

func TestNewErrorResult(t *testing.T) {
	result := NewErrorResult("boom")
	if !result.IsError {
		t.Error("error result should set IsError")
	}
	if text := resultText(t, result); text != "boom" {
		t.Errorf("text = %q, want %q", text, "boom")
	}
}

func TestJSONResult_Pretty(t *testing.T) {
	payload := json.RawMessage(`{"projectId":"proj-1","name":"alpha"}`)
	result := jsonResult("Project proj-1", payload)

	want := "Project proj-1\n\n{\n  \"projectId\": \"proj-1\",\n  \"name\": \"alpha\"\n}"
	if text := resultText(t, result); text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestJSONResult_EmptyPayload(t *testing.T) {
	result := jsonResult("Done", nil)
	if text := resultText(t, result); text != "Done" {
		t.Errorf("text = %q, want title only", text)
	}
}

func TestJSONResult_InvalidPayload(t *testing.T) {
	payload := json.RawMessage(`not json at all`)
	result := jsonResult("Raw", payload)

	if text := resultText(t, result); text != "Raw\n\nnot json at all" {
		t.Errorf("text = %q, want raw fallback", text)
	}
}
