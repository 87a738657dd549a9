/*
Package editor provides the Configuration Editor: the stateful owner of one
configuration, used by hosts that let users add and remove keywords or restyle zones.

Every mutation is validated by the domain package first; a rejected mutation leaves the
configuration untouched and is reported through the OnReject hook. Accepted mutations run
the OnChange hook (hosts re-render there) and color or shape changes are pushed to the
diagram Notifier, one SettingsChange per keyword of the zone.
*/
package editor
