package preview

// clientScript replays batches into the page the same way protocol.Mirror
// does. Events of every type some node listens for are captured at the
// mount and forwarded with the innermost server-known node as target.
const clientScript = `(function () {
  "use strict";
  var mount = document.querySelector("[` + RootAttr + `]");
  if (!mount) return;
  var rootId = Number(mount.getAttribute("` + RootAttr + `"));

  var FRAME_BATCH = 1, FRAME_EVENT = 2, FRAME_ERROR = 3, FLAG_SNAPSHOT = 1;
  var CREATE = 1, INSERT = 2, REMOVE = 3, SET_TEXT = 4, SET_ATTR = 5,
      REMOVE_ATTR = 6, SET_STYLE = 7, SET_FIELD = 8, ADD_LISTENER = 9,
      REMOVE_LISTENER = 10;
  var HTML_NS = "http://www.w3.org/1999/xhtml";
  var PREFIX = {
    "http://www.w3.org/1999/xlink": "xlink:",
    "http://www.w3.org/XML/1998/namespace": "xml:"
  };

  var utf8in = new TextDecoder(), utf8out = new TextEncoder();
  var nodes, ids, listening, types, seq, socket;

  function reset() {
    nodes = new Map([[rootId, mount]]);
    ids = new WeakMap([[mount, rootId]]);
    listening = new Map();
    seq = 0;
  }
  types = new Map();
  reset();

  function Reader(bytes) { this.b = bytes; this.i = 0; }
  Reader.prototype.byte = function () {
    if (this.i >= this.b.length) throw new Error("truncated payload");
    return this.b[this.i++];
  };
  Reader.prototype.uvarint = function () {
    var v = 0, mul = 1, b;
    do { b = this.byte(); v += (b & 0x7f) * mul; mul *= 128; } while (b & 0x80);
    return v;
  };
  Reader.prototype.string = function () {
    var n = this.uvarint();
    if (this.i + n > this.b.length) throw new Error("truncated string");
    var s = utf8in.decode(this.b.subarray(this.i, this.i + n));
    this.i += n;
    return s;
  };
  Reader.prototype.bool = function () { return this.byte() !== 0; };

  function Writer() { this.b = []; }
  Writer.prototype.byte = function (v) { this.b.push(v & 0xff); };
  Writer.prototype.uvarint = function (v) {
    while (v >= 0x80) { this.b.push((v % 128) | 0x80); v = Math.floor(v / 128); }
    this.b.push(v);
  };
  Writer.prototype.string = function (s) {
    var bytes = utf8out.encode(s);
    this.uvarint(bytes.length);
    for (var i = 0; i < bytes.length; i++) this.b.push(bytes[i]);
  };

  function frame(type, payload) {
    var out = new Uint8Array(6 + payload.length), n = payload.length;
    out[0] = type; out[1] = 0;
    out[2] = (n >>> 24) & 0xff; out[3] = (n >>> 16) & 0xff;
    out[4] = (n >>> 8) & 0xff; out[5] = n & 0xff;
    out.set(payload, 6);
    return out;
  }

  function node(id) {
    if (id === 0) return null;
    var n = nodes.get(id);
    if (!n) throw new Error("unknown node #" + id);
    return n;
  }

  function qualified(ns, name) {
    return (PREFIX[ns] || "") + name;
  }

  function listen(type) {
    var count = types.get(type) || 0;
    types.set(type, count + 1);
    if (count === 0) mount.addEventListener(type, forward, true);
  }

  function unlisten(type) {
    var count = types.get(type) || 0;
    if (count <= 1) {
      types.delete(type);
      mount.removeEventListener(type, forward, true);
    } else {
      types.set(type, count - 1);
    }
  }

  function apply(r) {
    var op = r.byte(), target = r.uvarint(), t, ns, name, set;
    switch (op) {
    case CREATE:
      if (r.bool()) {
        t = document.createTextNode(r.string());
      } else {
        name = r.string(); ns = r.string();
        t = ns && ns !== HTML_NS ? document.createElementNS(ns, name) : document.createElement(name);
      }
      nodes.set(target, t);
      ids.set(t, target);
      return;
    }
    t = node(target);
    switch (op) {
    case INSERT:
      var parent = node(r.uvarint()), before = node(r.uvarint());
      parent.insertBefore(t, before);
      break;
    case REMOVE:
      r.uvarint();
      if (t.parentNode) t.parentNode.removeChild(t);
      break;
    case SET_TEXT:
      t.data = r.string();
      break;
    case SET_ATTR:
      name = r.string(); ns = r.string();
      var value = r.string();
      if (ns) t.setAttributeNS(ns, qualified(ns, name), value);
      else t.setAttribute(name, value);
      break;
    case REMOVE_ATTR:
      name = r.string(); ns = r.string();
      if (ns) t.removeAttributeNS(ns, name);
      else t.removeAttribute(name);
      break;
    case SET_STYLE:
      name = r.string();
      var css = r.string();
      if (name === "") t.style.cssText = css;
      else if (css === "") t.style.removeProperty(name);
      else t.style.setProperty(name, css);
      break;
    case SET_FIELD:
      name = r.string();
      var raw = r.string();
      t[name] = typeof t[name] === "boolean" ? raw === "true" : raw;
      break;
    case ADD_LISTENER:
    case REMOVE_LISTENER:
      name = r.string();
      set = listening.get(target);
      if (op === ADD_LISTENER) {
        if (!set) listening.set(target, set = new Set());
        if (!set.has(name)) { set.add(name); listen(name); }
      } else if (set && set.delete(name)) {
        unlisten(name);
      }
      break;
    default:
      throw new Error("unknown op " + op);
    }
  }

  function batch(payload, snapshot) {
    var r = new Reader(payload), next = r.uvarint(), count = r.uvarint();
    if (snapshot) {
      types.forEach(function (_, type) { mount.removeEventListener(type, forward, true); });
      types = new Map();
      reset();
      while (mount.firstChild) mount.removeChild(mount.firstChild);
    } else if (next !== seq + 1) {
      throw new Error("batch " + next + " after " + seq);
    }
    for (var i = 0; i < count; i++) apply(r);
    seq = next;
  }

  function failure(payload) {
    var r = new Reader(payload), code = r.uvarint(), message = r.string(), fatal = r.bool();
    console.warn("vtree: server error " + code + ": " + message);
    if (fatal) socket.close();
  }

  function forward(e) {
    if (!socket || socket.readyState !== WebSocket.OPEN) return;
    var el = e.target;
    while (el && !ids.has(el)) el = el.parentNode;
    if (!el) return;
    if (e.type === "submit") e.preventDefault();

    var w = new Writer(), flags = 0;
    var hasValue = /^(INPUT|TEXTAREA|SELECT)$/.test(el.nodeName);
    var hasChecked = el.type === "checkbox" || el.type === "radio";
    w.uvarint(ids.get(el));
    w.string(e.type);
    if (hasValue) flags |= 1;
    if (hasChecked) { flags |= 2; if (el.checked) flags |= 4; }
    w.byte(flags);
    if (hasValue) w.string(el.value);
    socket.send(frame(FRAME_EVENT, new Uint8Array(w.b)));
  }

  function connect() {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    socket = new WebSocket(scheme + location.host + "/ws");
    socket.binaryType = "arraybuffer";
    socket.onmessage = function (msg) {
      var data = new Uint8Array(msg.data);
      try {
        var n = ((data[2] << 24) >>> 0) + (data[3] << 16) + (data[4] << 8) + data[5];
        var payload = data.subarray(6, 6 + n);
        if (payload.length !== n) throw new Error("truncated frame");
        if (data[0] === FRAME_BATCH) batch(payload, (data[1] & FLAG_SNAPSHOT) !== 0);
        else if (data[0] === FRAME_ERROR) failure(payload);
      } catch (err) {
        console.error("vtree: " + err.message + ", resyncing");
        socket.close();
      }
    };
    socket.onclose = function () { setTimeout(connect, 1000); };
  }
  connect();
})();`
