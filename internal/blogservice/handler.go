package blogservice

import (
	"context"
	"net/http"
	"time"

	"github.com/sushihentaime/blogist/internal/common"
)

// Messages shown by the create form.
const (
	MsgRequiredFields = "Title and Content are required."
	MsgCreateFailed   = "Failed to create blog. Please try again."
	MsgInvalidForm    = "The form could not be read. Please try again."
)

// isoMillis matches the millisecond UTC timestamps the API stores.
const isoMillis = "2006-01-02T15:04:05.000Z"

func NewBlogService(client *http.Client, baseURL string, c *common.Cache) *BlogService {
	return &BlogService{
		m:   newBlogModel(client, baseURL),
		c:   c,
		now: time.Now,
	}
}

// ListBlogs returns the cache entry for the blog collection, starting a fetch
// if there is none. Data is a []Blog on success.
func (s *BlogService) ListBlogs(ctx context.Context) common.Entry {
	return s.c.Query(ctx, common.CacheKeyBlogs(), s.fetchBlogs)
}

// GetBlog returns the cache entry for one blog. An empty id disables the
// query and yields an idle entry without any request. Data is a *Blog on
// success and may be nil.
func (s *BlogService) GetBlog(ctx context.Context, id ID) common.Entry {
	if !queryEnabled(id) {
		return common.Entry{Status: common.StatusIdle}
	}

	return s.c.Query(ctx, common.CacheKeyBlog(id.String()), s.fetchBlog(id))
}

func queryEnabled(id ID) bool {
	v := common.NewValidator()
	validateID(v, id)
	return v.Valid()
}

func (s *BlogService) fetchBlogs(ctx context.Context) (any, error) {
	return s.m.list(ctx)
}

func (s *BlogService) fetchBlog(id ID) common.FetchFunc {
	return func(ctx context.Context) (any, error) {
		return s.m.get(ctx, id)
	}
}

// WaitBlogs blocks until the collection entry settles or ctx is done.
func (s *BlogService) WaitBlogs(ctx context.Context) common.Entry {
	e, _ := s.c.Fetch(ctx, common.CacheKeyBlogs(), s.fetchBlogs)
	return e
}

// WaitBlog blocks until the entry for id settles or ctx is done.
func (s *BlogService) WaitBlog(ctx context.Context, id ID) common.Entry {
	if !queryEnabled(id) {
		return common.Entry{Status: common.StatusIdle}
	}

	e, _ := s.c.Fetch(ctx, common.CacheKeyBlog(id.String()), s.fetchBlog(id))
	return e
}

// RetryFailed forgets failed fetches of the collection and of id so that the
// next read issues a new request.
func (s *BlogService) RetryFailed(id ID) {
	s.c.ClearError(common.CacheKeyBlogs())
	if id != "" {
		s.c.ClearError(common.CacheKeyBlog(id.String()))
	}
}

// NewCreateBlogInput builds the request body for form, dated at now.
func NewCreateBlogInput(form *CreateBlogForm, now time.Time) *CreateBlogInput {
	return &CreateBlogInput{
		Title:       form.Title,
		Category:    parseCategories(form.Category),
		Description: form.Description,
		CoverImage:  form.CoverImage,
		Content:     form.Content,
		Date:        now.UTC().Format(isoMillis),
	}
}

// CreateBlog validates form, creates the blog and invalidates the collection
// key before returning. Validation failures return a common.ValidationError
// without contacting the API; API failures return a *NetworkError.
func (s *BlogService) CreateBlog(ctx context.Context, form *CreateBlogForm) (*Blog, error) {
	v := common.NewValidator()
	validateCreateForm(v, form)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.insert(ctx, NewCreateBlogInput(form, s.now()))
	if err != nil {
		return nil, err
	}

	s.c.Invalidate(common.CacheKeyBlogs())

	return blog, nil
}
