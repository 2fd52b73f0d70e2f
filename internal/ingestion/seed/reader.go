package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"yamdb/internal/http-api/models"
)

// ErrBadRecord marks a CSV row that cannot be converted into a model.
var ErrBadRecord = errors.New("bad record")

// record is one CSV row keyed by header column.
type record struct {
	file   string
	line   int
	fields map[string]string
}

func (r record) get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

func (r record) fail(format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", r.file, r.line, ErrBadRecord, fmt.Sprintf(format, args...))
}

func (r record) int64(column string) (int64, error) {
	v, err := strconv.ParseInt(r.get(column), 10, 64)
	if err != nil {
		return 0, r.fail("column %q: %q is not an integer", column, r.get(column))
	}
	return v, nil
}

func (r record) optional(column string) *string {
	if v := r.get(column); v != "" {
		return &v
	}
	return nil
}

func (r record) time(column string) (time.Time, error) {
	raw := r.get(column)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, r.fail("column %q: %q is not an RFC 3339 timestamp", column, raw)
	}
	return t, nil
}

// readTable reads name from fsys. A missing file yields fs.ErrNotExist.
func readTable(fsys fs.FS, name string) ([]record, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []record
	for line := 2; ; line++ {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		fields := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(values) {
				fields[column] = values[i]
			}
		}
		rows = append(rows, record{file: name, line: line, fields: fields})
	}
}

// userNamespace derives stable user ids from the integer ids of users.csv,
// so re-running an import maps every row onto the same user.
var userNamespace = uuid.MustParse("6f1c7d44-3c1b-4f9e-9a53-2a0f7c1d8e15")

func UserID(csvID string) string {
	return uuid.NewSHA1(userNamespace, []byte(csvID)).String()
}

func parseCategory(r record) (models.Category, error) {
	id, err := r.int64("id")
	if err != nil {
		return models.Category{}, err
	}
	if r.get("name") == "" || r.get("slug") == "" {
		return models.Category{}, r.fail("name and slug are required")
	}
	return models.Category{ID: id, Name: r.get("name"), Slug: r.get("slug")}, nil
}

func parseGenre(r record) (models.Genre, error) {
	c, err := parseCategory(r)
	return models.Genre{ID: c.ID, Name: c.Name, Slug: c.Slug}, err
}

func parseTitle(r record) (models.Title, error) {
	id, err := r.int64("id")
	if err != nil {
		return models.Title{}, err
	}
	year, err := r.int64("year")
	if err != nil {
		return models.Title{}, err
	}
	t := models.Title{ID: id, Name: r.get("name"), Year: int(year), Description: r.optional("description")}
	if t.Name == "" {
		return models.Title{}, r.fail("name is required")
	}
	if r.get("category") != "" {
		categoryID, err := r.int64("category")
		if err != nil {
			return models.Title{}, err
		}
		t.CategoryID = &categoryID
	}
	return t, nil
}

// titleGenre is a row of the title/genre join table.
type titleGenre struct {
	TitleID int64
	GenreID int64
}

func (titleGenre) TableName() string {
	return "title_genres"
}

func parseTitleGenre(r record) (titleGenre, error) {
	titleID, err := r.int64("title_id")
	if err != nil {
		return titleGenre{}, err
	}
	genreID, err := r.int64("genre_id")
	if err != nil {
		return titleGenre{}, err
	}
	return titleGenre{TitleID: titleID, GenreID: genreID}, nil
}

func parseUser(r record) (models.User, error) {
	if r.get("id") == "" || r.get("username") == "" || r.get("email") == "" {
		return models.User{}, r.fail("id, username and email are required")
	}
	role := r.get("role")
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		return models.User{}, r.fail("unknown role %q", role)
	}
	return models.User{
		ID:        UserID(r.get("id")),
		Username:  r.get("username"),
		Email:     r.get("email"),
		Role:      role,
		Bio:       r.get("bio"),
		FirstName: r.optional("first_name"),
		LastName:  r.optional("last_name"),
	}, nil
}

func parseReview(r record) (models.Review, error) {
	id, err := r.int64("id")
	if err != nil {
		return models.Review{}, err
	}
	titleID, err := r.int64("title_id")
	if err != nil {
		return models.Review{}, err
	}
	score, err := r.int64("score")
	if err != nil {
		return models.Review{}, err
	}
	if score < 1 || score > 10 {
		return models.Review{}, r.fail("score %d is outside 1..10", score)
	}
	pubDate, err := r.time("pub_date")
	if err != nil {
		return models.Review{}, err
	}
	if r.get("author") == "" {
		return models.Review{}, r.fail("author is required")
	}
	return models.Review{
		ID:       id,
		TitleID:  titleID,
		AuthorID: UserID(r.get("author")),
		Text:     r.get("text"),
		Score:    int(score),
		PubDate:  pubDate,
	}, nil
}

func parseComment(r record) (models.Comment, error) {
	id, err := r.int64("id")
	if err != nil {
		return models.Comment{}, err
	}
	reviewID, err := r.int64("review_id")
	if err != nil {
		return models.Comment{}, err
	}
	pubDate, err := r.time("pub_date")
	if err != nil {
		return models.Comment{}, err
	}
	if r.get("author") == "" {
		return models.Comment{}, r.fail("author is required")
	}
	return models.Comment{
		ID:       id,
		ReviewID: reviewID,
		AuthorID: UserID(r.get("author")),
		Text:     r.get("text"),
		PubDate:  pubDate,
	}, nil
}
