/*
Package resolve substitutes block references in content with prior outputs.

Two reference forms are recognized:

  - Inline: ${target} or ${target:format=json,limit=10}
  - Tag:    <ref target="name" format="code"/>

The tag form exists because upstream normalization may have already turned
inline references into markup. Both forms accept the same modifiers and are
substituted in the same pass.

Resolution never hard-fails. A reference whose target has no output resolves
to the literal supplied by its fallback modifier, or to an explicit
"[unresolved: target]" marker when no fallback is given - never to a silent
empty string.

Substitution re-runs until content stops changing, bounded at 5 passes, so
self-referential data always terminates. Content without reference markers
is returned unchanged.
*/
package resolve
