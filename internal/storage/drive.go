package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"family-drop/internal/config"
	"family-drop/internal/logging"
)

const driveFolderMimeType = "application/vnd.google-apps.folder"

// driveQueryEscaper escapes values embedded in Drive search queries.
var driveQueryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Drive stores each family in a sub-folder of a fixed parent folder.
//
// Drive allows several folders with the same name under one parent, so a
// lookup always picks the oldest match. Two requests racing to create the
// same family folder therefore end up writing into the same one.
type Drive struct {
	svc      *drive.Service
	parentID string
}

// NewDrive authenticates with the service account key in cfg and returns a
// Drive backend. Extra client options are appended after the credentials.
func NewDrive(ctx context.Context, cfg config.DriveConfig, opts ...option.ClientOption) (*Drive, error) {
	creds, err := google.CredentialsFromJSON(ctx, []byte(cfg.CredentialsJSON), drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse google service account credentials: %w", err)
	}

	opts = append([]option.ClientOption{option.WithCredentials(creds)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return NewDriveWithService(svc, cfg.ParentFolderID), nil
}

// NewDriveWithService wraps an existing Drive service.
func NewDriveWithService(svc *drive.Service, parentID string) *Drive {
	return &Drive{svc: svc, parentID: parentID}
}

func escapeDriveQuery(s string) string {
	return driveQueryEscaper.Replace(s)
}

// findFolder returns the oldest folder named name under the parent folder.
func (d *Drive) findFolder(ctx context.Context, name string) (Container, bool, error) {
	q := fmt.Sprintf("mimeType='%s' and name='%s' and '%s' in parents and trashed=false",
		driveFolderMimeType, escapeDriveQuery(name), escapeDriveQuery(d.parentID))

	list, err := d.svc.Files.List().
		Q(q).
		Fields("files(id, name)").
		OrderBy("createdTime").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Container{}, false, fmt.Errorf("list drive folders: %w", err)
	}
	if len(list.Files) == 0 {
		return Container{}, false, nil
	}

	f := list.Files[0]
	return Container{ID: f.Id, Name: f.Name}, true, nil
}

func (d *Drive) ResolveContainer(ctx context.Context, name string) (Container, error) {
	c, ok, err := d.findFolder(ctx, name)
	if err != nil {
		return Container{}, err
	}
	if ok {
		logging.Debug("drive_folder_found", map[string]any{"folder_id": c.ID, "family": name})
		return c, nil
	}

	created, err := d.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: driveFolderMimeType,
		Parents:  []string{d.parentID},
	}).
		Fields("id, name").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Container{}, fmt.Errorf("create drive folder %q: %w", name, err)
	}
	logging.Info("drive_folder_created", map[string]any{"folder_id": created.Id, "family": name})

	// Re-resolve so that concurrent creators converge on the oldest folder.
	c, ok, err = d.findFolder(ctx, name)
	switch {
	case err != nil:
		logging.Warn("drive_folder_refind_failed", map[string]any{
			"folder_id": created.Id,
			"family":    name,
			"error":     err.Error(),
		})
	case ok:
		return c, nil
	}
	return Container{ID: created.Id, Name: name}, nil
}

// findFile returns the id of a non-folder file named name inside folderID.
func (d *Drive) findFile(ctx context.Context, folderID, name string) (string, error) {
	q := fmt.Sprintf("name='%s' and '%s' in parents and mimeType!='%s' and trashed=false",
		escapeDriveQuery(name), escapeDriveQuery(folderID), driveFolderMimeType)

	list, err := d.svc.Files.List().
		Q(q).
		Fields("files(id)").
		OrderBy("createdTime").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list drive files: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (d *Drive) WriteObject(ctx context.Context, c Container, obj Object) (ObjectRef, error) {
	existingID, err := d.findFile(ctx, c.ID, obj.Name)
	if err != nil {
		return ObjectRef{}, err
	}

	media := googleapi.ContentType(obj.ContentType)

	var f *drive.File
	if existingID != "" {
		f, err = d.svc.Files.Update(existingID, &drive.File{}).
			Media(obj.Body, media).
			Fields("id, name, webViewLink").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
	} else {
		f, err = d.svc.Files.Create(&drive.File{
			Name:    obj.Name,
			Parents: []string{c.ID},
		}).
			Media(obj.Body, media).
			Fields("id, name, webViewLink").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
	}
	if err != nil {
		return ObjectRef{}, fmt.Errorf("upload %q to drive: %w", obj.Name, err)
	}

	return ObjectRef{ID: f.Id, Name: f.Name, Container: c, Link: f.WebViewLink}, nil
}

func (d *Drive) IssueShareableLink(ctx context.Context, ref ObjectRef) (string, error) {
	if ref.Link != "" {
		return ref.Link, nil
	}

	f, err := d.svc.Files.Get(ref.ID).
		Fields("webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("get drive link for %q: %w", ref.Name, err)
	}
	if f.WebViewLink == "" {
		return "", fmt.Errorf("drive returned no link for %q", ref.Name)
	}
	return f.WebViewLink, nil
}

// Ping checks that the parent folder is reachable with the configured credentials.
func (d *Drive) Ping(ctx context.Context) error {
	_, err := d.svc.Files.Get(d.parentID).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 404 {
			return fmt.Errorf("drive parent folder %s not found or not shared with the service account", d.parentID)
		}
		return fmt.Errorf("drive ping: %w", err)
	}
	return nil
}
