package gdrive

import (
	"context"
	"time"

	"google.golang.org/api/drive/v3"
)

// driveAPI adapts the Drive service to the handler's api interface.
type driveAPI struct {
	svc *drive.Service
}

// GetDocumentTitle fetches the document's display name.
func (d *driveAPI) GetDocumentTitle(ctx context.Context, documentID string) (string, error) {
	file, err := d.svc.Files.Get(documentID).Fields("name").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return file.Name, nil
}

// ListRevisions fetches all revisions for a document.
func (d *driveAPI) ListRevisions(ctx context.Context, documentID string) ([]Revision, error) {
	list, err := d.svc.Revisions.List(documentID).
		Fields("revisions(id,modifiedTime,lastModifyingUser(displayName))").
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	revisions := make([]Revision, 0, len(list.Revisions))
	for _, rev := range list.Revisions {
		modified, _ := time.Parse(time.RFC3339, rev.ModifiedTime)
		author := ""
		if rev.LastModifyingUser != nil {
			author = rev.LastModifyingUser.DisplayName
		}
		revisions = append(revisions, Revision{
			ID:           rev.Id,
			ModifiedTime: modified,
			Author:       author,
		})
	}
	return revisions, nil
}

// ListComments fetches all comments for a document.
func (d *driveAPI) ListComments(ctx context.Context, documentID string) ([]Comment, error) {
	list, err := d.svc.Comments.List(documentID).
		Fields("comments(id,content,createdTime,author(displayName))").
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(list.Comments))
	for _, c := range list.Comments {
		created, _ := time.Parse(time.RFC3339, c.CreatedTime)
		author := ""
		if c.Author != nil {
			author = c.Author.DisplayName
		}
		comments = append(comments, Comment{
			ID:          c.Id,
			Content:     c.Content,
			Author:      author,
			CreatedTime: created,
		})
	}
	return comments, nil
}
