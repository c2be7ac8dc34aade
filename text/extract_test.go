package text

import (
	"testing"

	"github.com/corepdf/corepdf/model"
)

type fakeResolver struct{ objs map[model.Ref]model.Object }

func (f fakeResolver) Resolve(r model.Ref) (model.Object, error) {
	if o, ok := f.objs[r]; ok {
		return o, nil
	}
	return model.Null{}, nil
}

func fontDict(name model.Name) model.Dict {
	d := model.NewDict()
	d.Set("BaseFont", name)
	d.Set("Subtype", model.Name("Type1"))
	d.Set("Encoding", model.Name("WinAnsiEncoding"))
	return d
}

func TestExtractWinAnsiFallback(t *testing.T) {
	fontsDict := model.NewDict()
	fontsDict.Set("F1", fontDict("Helvetica"))
	resDict := model.NewDict()
	resDict.Set("Font", fontsDict)

	r := fakeResolver{objs: map[model.Ref]model.Object{}}
	res := model.NewResources(r, resDict)

	content := []byte("BT /F1 12 Tf 100 700 Td (Hello, World!) Tj ET")
	result, err := Extract(content, r, res, nil, Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Text != "Hello, World!" {
		t.Fatalf("unexpected extracted text: %q", result.Text)
	}
}

func TestExtractLayoutInsertsNewline(t *testing.T) {
	fontsDict := model.NewDict()
	fontsDict.Set("F1", fontDict("Helvetica"))
	resDict := model.NewDict()
	resDict.Set("Font", fontsDict)

	r := fakeResolver{}
	res := model.NewResources(r, resDict)

	content := []byte("BT /F1 12 Tf 0 700 Td (Line one) Tj 0 650 Td (Line two) Tj ET")
	result, err := Extract(content, r, res, nil, Options{Strict: true, PreserveLayout: true})
	if err != nil {
		t.Fatal(err)
	}
	if !containsNewline(result.Text) {
		t.Fatalf("expected a newline between lines with a large Y gap, got %q", result.Text)
	}
}

func containsNewline(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}
