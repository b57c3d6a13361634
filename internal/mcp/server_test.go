package mcpserver

import (
	"strings"
	"testing"
)

func TestTextResult(t *testing.T) {
	res := textResult("hello")
	if len(res.Content) != 1 {
		t.Fatalf("content = %+v", res.Content)
	}
}

func TestJSONResultIndents(t *testing.T) {
	res, err := jsonResult(map[string]int{"count": 3})
	if err != nil {
		t.Fatalf("jsonResult: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("content = %+v", res.Content)
	}
}

func TestJSONResultRejectsUnmarshalable(t *testing.T) {
	_, err := jsonResult(make(chan int))
	if err == nil || !strings.Contains(err.Error(), "marshal result") {
		t.Errorf("err = %v, want marshal failure", err)
	}
}
