package docview

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/docview/config"
)

const shapeSource = `package geo;

/** A shape. */
public abstract class Shape {
    /** Number of sides. */
    protected int sides;

    /** Area of the shape. */
    public abstract double area();

    public String describe() {
        return "shape";
    }
}
`

const squareSource = `package geo;

/** A square. */
public class Square extends Shape {
    private double side;

    /**
     * Creates a square.
     */
    public Square(double side) {
        this.side = side;
    }

    /** Side squared. */
    public double area() {
        return side * side;
    }
}
`

func newProject(t *testing.T) string {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.bluej"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "geo"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "geo", "Shape.java"), []byte(shapeSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "geo", "Square.java"), []byte(squareSource), 0644))
	return root
}

func TestSession_UpdateAndView(t *testing.T) {
	ctx := context.Background()
	root := newProject(t)
	cfg := config.DefaultConfig()
	cfg.Project = root
	session, err := New(ctx, cfg)
	require.NoError(t, err)
	defer session.Close()
	require.NotNil(t, session.Project())

	diff, err := session.Preview(ctx, []byte(squareSource))
	require.NoError(t, err)
	assert.Contains(t, diff, "+comment0.target=class Square\n")

	for _, source := range []string{shapeSource, squareSource} {
		unit, err := session.Update(ctx, []byte(source))
		require.NoError(t, err)
		assert.True(t, unit.Writable())
	}
	_, err = os.Stat(filepath.Join(root, "geo", "Square.ctxt"))
	require.NoError(t, err)
	diff, err = session.Preview(ctx, []byte(squareSource))
	require.NoError(t, err)
	assert.Empty(t, diff)

	square, err := session.ViewFor(ctx, "geo.Square")
	require.NoError(t, err)
	comment, ok := square.Comment(ctx)
	require.True(t, ok)
	assert.Equal(t, "A square.", comment.Text())

	var methods []string
	var texts []string
	for _, method := range square.AllMethods(ctx) {
		methods = append(methods, method.Signature())
		comment, _ := square.MemberComment(ctx, method)
		texts = append(texts, comment.Text())
	}
	assert.Equal(t, []string{"double area()", "String describe()"}, methods)
	assert.Equal(t, []string{"Side squared.", ""}, texts)

	fields := square.AllFields(ctx)
	require.Len(t, fields, 2)
	comment, _ = square.MemberComment(ctx, fields[0])
	assert.Equal(t, "Number of sides.", comment.Text())

	views, err := session.Views(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Same(t, square, views[1])

	assert.True(t, session.Delete(ctx, "geo.Square"))
	assert.False(t, session.Delete(ctx, "geo.Square"))
	_, ok = square.Comment(ctx)
	assert.False(t, ok)
}

func TestSession_Reload(t *testing.T) {
	ctx := context.Background()
	root := newProject(t)
	session, err := New(ctx, &config.Config{LoaderID: "app", SourceRoots: []string{root}})
	require.NoError(t, err)
	defer session.Close()

	before, err := session.ViewFor(ctx, "geo.Square")
	require.NoError(t, err)
	assert.Len(t, before.Methods(), 1)

	updated := []byte("package geo;\npublic class Square extends Shape {\n    public double area() { return 0; }\n    public double perimeter() { return 0; }\n}\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "geo", "Square.java"), updated, 0644))
	session.Reload()

	after, err := session.ViewFor(ctx, "geo.Square")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Len(t, after.Methods(), 2)
	assert.Equal(t, "app#1", after.Identity().Loader)
	assert.Equal(t, 1, session.Cache().Len())
}

func TestSession_Watch(t *testing.T) {
	ctx := context.Background()
	root := newProject(t)
	cfg := config.DefaultConfig()
	cfg.Project = root
	cfg.Watch = true
	cfg.Debounce = 20 * time.Millisecond
	session, err := New(ctx, cfg)
	require.NoError(t, err)
	defer session.Close()

	_, err = session.Update(ctx, []byte(squareSource))
	require.NoError(t, err)
	square, err := session.ViewFor(ctx, "geo.Square")
	require.NoError(t, err)
	comment, _ := square.Comment(ctx)
	assert.Equal(t, "A square.", comment.Text())

	edited := "#BlueJ class context\ncomment0.target=class Square\ncomment0.text=Edited.\nnumComments=1\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "geo", "Square.ctxt"), []byte(edited), 0644))

	assert.Eventually(t, func() bool {
		comment, _ := square.Comment(ctx)
		return comment.Text() == "Edited."
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSession_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, nil)
	assert.Error(t, err)

	session, err := New(ctx, &config.Config{LoaderID: "app", SourceRoots: []string{t.TempDir()}})
	require.NoError(t, err)
	defer session.Close()

	_, err = session.ViewFor(ctx, "geo.Missing")
	assert.Error(t, err)
	_, err = session.Update(ctx, []byte("package geo;\n"))
	assert.Error(t, err)
}
