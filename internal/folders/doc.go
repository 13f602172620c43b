// Package folders locks and unlocks folders for the current user and keeps
// the LockedFolders table up to date with the last action per folder.
//
// Locking denies the current user read and execute access to the folder;
// unlocking restores it. How that is done depends on the platform:
//
//   - Windows runs icacls, adding a deny ACE for the user on lock and
//     removing the user's deny ACEs on unlock.
//   - Everywhere else the owner read and execute permission bits are
//     cleared on lock and set again on unlock.
//
// The table only changes after the permission change succeeds. Locking is
// a convenience against casual browsing, not access control: the owner of
// the folder can always undo it.
package folders
