package feature

import (
	"reflect"
	"testing"
)

func TestSkills_CaseInsensitiveDedup(t *testing.T) {
	got := Skills("Python PYTHON python")
	want := []string{"python"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSkills_WholeWordOnly(t *testing.T) {
	// "javascripting" must not yield javascript, nor java.
	got := Skills("I enjoy javascripting all day")
	if len(got) != 0 {
		t.Errorf("expected no skills, got %v", got)
	}
}

func TestSkills_JavaVersusJavascript(t *testing.T) {
	got := Skills("Experienced in Java and JavaScript development")
	want := []string{"java", "javascript"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSkills_MultiWordTerms(t *testing.T) {
	got := Skills("Built machine learning pipelines and REST API services")
	want := []string{"machine learning", "rest api"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSkills_Sorted(t *testing.T) {
	got := Skills("sql docker python git aws")
	want := []string{"aws", "docker", "git", "python", "sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected sorted %v, got %v", want, got)
	}
}

func TestSkills_Empty(t *testing.T) {
	if got := Skills(""); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestSkills_NodeJS(t *testing.T) {
	got := Skills("backend in node.js and TypeScript")
	want := []string{"node.js", "typescript"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
