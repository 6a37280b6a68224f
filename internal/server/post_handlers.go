package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"inkwell/internal/forms"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
)

func (s *Server) Index(c *fiber.Ctx) error {
	posts, page, err := s.postService.Index(c.Context(), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "index", fiber.Map{
		"Title": "Latest posts",
		"Posts": posts,
		"Page":  page,
	})
}

func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, posts, page, err := s.postService.GroupPage(c.Context(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "group_list", fiber.Map{
		"Title": group.Title,
		"Group": group,
		"Posts": posts,
		"Page":  page,
	})
}

func (s *Server) Profile(c *fiber.Ctx) error {
	ctx := c.Context()
	author, posts, page, err := s.postService.ProfilePage(ctx, c.Params("username"), c.Query("page"))
	if err != nil {
		return err
	}

	following := false
	if viewerID, ok := middleware.CurrentUserID(c); ok {
		following, err = s.followService.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return err
		}
	}

	return s.render(c, "profile", fiber.Map{
		"Title":     author.Username,
		"Author":    author,
		"Posts":     posts,
		"Page":      page,
		"Following": following,
	})
}

func (s *Server) PostDetail(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return err
	}

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return err
	}
	comments, err := s.commentService.ListByPost(ctx, post.ID)
	if err != nil {
		return err
	}

	isOwner := false
	if viewerID, ok := middleware.CurrentUserID(c); ok {
		isOwner = viewerID == post.AuthorID
	}

	return s.render(c, "post_detail", fiber.Map{
		"Title":    fmt.Sprintf("Post by %s", post.Author.Username),
		"Post":     post,
		"Comments": comments,
		"Form":     &forms.CommentForm{},
		"IsOwner":  isOwner,
	})
}

func (s *Server) FollowIndex(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	posts, page, err := s.postService.FeedPage(c.Context(), userID, c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, "follow", fiber.Map{
		"Title": "Your feed",
		"Posts": posts,
		"Page":  page,
	})
}

func (s *Server) PostCreatePage(c *fiber.Ctx) error {
	groups, err := s.postService.Groups(c.Context())
	if err != nil {
		return err
	}
	return s.render(c, "create_post", fiber.Map{
		"Title":         "New post",
		"Form":          &forms.PostForm{},
		"Groups":        groups,
		"SelectedGroup": uint(0),
	})
}

func (s *Server) PostCreate(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, _ := middleware.CurrentUserID(c)

	form, ok := s.bindPostForm(c)
	if gerr := s.checkGroup(c, form); gerr != nil {
		return gerr
	}
	ok = ok && len(form.Errors) == 0

	imagePath := ""
	if ok {
		var err error
		imagePath, err = s.savePostImage(c)
		if err != nil {
			form.Errors["image"] = err.Error()
			ok = false
		}
	}

	if !ok {
		return s.renderPostForm(c, form, false)
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID:  userID,
		Text:      form.Text,
		GroupID:   form.GroupID,
		ImagePath: imagePath,
	})
	if err != nil {
		return err
	}
	return c.Redirect("/profile/"+post.Author.Username, fiber.StatusFound)
}

func (s *Server) PostEditPage(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return err
	}

	userID, _ := middleware.CurrentUserID(c)
	if post.AuthorID != userID {
		return c.Redirect(fmt.Sprintf("/posts/%d", post.ID), fiber.StatusFound)
	}

	form := &forms.PostForm{Text: post.Text, GroupID: post.GroupID}
	return s.renderPostForm(c, form, true)
}

func (s *Server) PostEdit(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return err
	}

	userID, _ := middleware.CurrentUserID(c)
	if post.AuthorID != userID {
		return c.Redirect(fmt.Sprintf("/posts/%d", post.ID), fiber.StatusFound)
	}

	form, ok := s.bindPostForm(c)
	if gerr := s.checkGroup(c, form); gerr != nil {
		return gerr
	}
	ok = ok && len(form.Errors) == 0

	imagePath := ""
	if ok {
		imagePath, err = s.savePostImage(c)
		if err != nil {
			form.Errors["image"] = err.Error()
			ok = false
		}
	}

	if !ok {
		return s.renderPostForm(c, form, true)
	}

	if _, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		PostID:    post.ID,
		UserID:    userID,
		Text:      form.Text,
		GroupID:   form.GroupID,
		ImagePath: imagePath,
	}); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/posts/%d", post.ID), fiber.StatusFound)
}

// bindPostForm reads the submitted post fields and runs form-level
// validation. The returned bool reflects that validation only; group
// existence is checked separately.
func (s *Server) bindPostForm(c *fiber.Ctx) (*forms.PostForm, bool) {
	form := &forms.PostForm{Text: c.FormValue("text")}
	groupID, parsed := parseGroupID(c.FormValue("group"))
	form.GroupID = groupID

	ok := form.Validate(s.blocklist)
	if !parsed {
		form.Errors["group"] = "Select a valid group"
		ok = false
	}
	return form, ok
}

func (s *Server) checkGroup(c *fiber.Ctx, form *forms.PostForm) error {
	if form.GroupID == nil {
		return nil
	}
	exists, err := s.postService.GroupExists(c.Context(), *form.GroupID)
	if err != nil {
		return err
	}
	if !exists {
		form.Errors["group"] = "Select a valid group"
	}
	return nil
}

func (s *Server) renderPostForm(c *fiber.Ctx, form *forms.PostForm, isEdit bool) error {
	groups, err := s.postService.Groups(c.Context())
	if err != nil {
		return err
	}

	selected := uint(0)
	if form.GroupID != nil {
		selected = *form.GroupID
	}

	title := "New post"
	if isEdit {
		title = "Edit post"
	}
	return s.render(c, "create_post", fiber.Map{
		"Title":         title,
		"Form":          form,
		"Groups":        groups,
		"SelectedGroup": selected,
		"IsEdit":        isEdit,
	})
}
